package k8s

import (
	"path"

	"github.com/bwplotka/mimic"
	"github.com/bwplotka/mimic/abstractions/kubernetes/volumes"
	"github.com/bwplotka/mimic/encoding"
	"github.com/go-openapi/swag"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/graz-dev/java-on-kubernetes/configs/abstractions/dockerimage"
	"github.com/graz-dev/java-on-kubernetes/pkg/scenario"
)

const selectorName = "app"

type LoadtesterOpts struct {
	Namespace string
	Name      string

	Img       dockerimage.Image
	Resources corev1.ResourceRequirements

	// Name of the ConfigMap holding the generated schedule. It is produced by
	// `scenariogen gen` and applied separately, so it is referenced here, not rendered.
	ScenarioConfigMap string

	// Base URL of the application under load.
	TargetURL string
}

// GenLoadtester generates a Deployment and Service for the locust-based driver
// replaying a scenario schedule against a single demo application.
func GenLoadtester(gen *mimic.Generator, opts LoadtesterOpts) {
	const (
		webPort           = 8089
		scenarioMountPath = "/etc/scenario"
	)

	scenarioVM := volumes.VolumeAndMount{
		VolumeSource: corev1.VolumeSource{
			ConfigMap: &corev1.ConfigMapVolumeSource{
				LocalObjectReference: corev1.LocalObjectReference{Name: opts.ScenarioConfigMap},
			},
		},
		VolumeMount: corev1.VolumeMount{
			Name:      opts.ScenarioConfigMap,
			MountPath: scenarioMountPath,
			ReadOnly:  true,
		},
	}

	srv := corev1.Service{
		TypeMeta: metav1.TypeMeta{
			Kind:       "Service",
			APIVersion: "v1",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      opts.Name,
			Namespace: opts.Namespace,
			Labels: map[string]string{
				selectorName: opts.Name,
			},
		},
		Spec: corev1.ServiceSpec{
			Type: corev1.ServiceTypeClusterIP,
			Selector: map[string]string{
				selectorName: opts.Name,
			},
			Ports: []corev1.ServicePort{
				{
					Name:       "http-web",
					Port:       webPort,
					TargetPort: intstr.FromInt(webPort),
				},
			},
		},
	}

	loadtesterContainer := corev1.Container{
		Name:  "loadtester",
		Image: opts.Img.String(),
		Env: []corev1.EnvVar{
			{Name: "LOCUST_HOST", Value: opts.TargetURL},
			{Name: "SCENARIO_FILE", Value: path.Join(scenarioMountPath, scenario.ScenarioKey)},
			{Name: "HOSTNAME", ValueFrom: &corev1.EnvVarSource{
				FieldRef: &corev1.ObjectFieldSelector{
					FieldPath: "metadata.name",
				},
			}},
		},
		ImagePullPolicy: corev1.PullAlways,
		ReadinessProbe: &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				HTTPGet: &corev1.HTTPGetAction{
					Port: intstr.FromInt(webPort),
					Path: "/",
				},
			},
		},
		Ports: []corev1.ContainerPort{
			{
				Name:          "http-web",
				ContainerPort: webPort,
			},
		},
		VolumeMounts: volumes.VolumesAndMounts{scenarioVM}.VolumeMounts(),
		SecurityContext: &corev1.SecurityContext{
			RunAsNonRoot: swag.Bool(false),
			RunAsUser:    swag.Int64(1000),
		},
		Resources: opts.Resources,
	}

	dpl := appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{
			Kind:       "Deployment",
			APIVersion: "apps/v1",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      opts.Name,
			Namespace: opts.Namespace,
			Labels: map[string]string{
				selectorName: opts.Name,
			},
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: swag.Int32(1),
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: map[string]string{
						selectorName: opts.Name,
					},
					Annotations: map[string]string{
						"scenario-configmap": opts.ScenarioConfigMap,
					},
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{loadtesterContainer},
					Volumes:    volumes.VolumesAndMounts{scenarioVM}.Volumes(),
				},
			},
			Selector: &metav1.LabelSelector{
				MatchLabels: map[string]string{
					selectorName: opts.Name,
				},
			},
		},
	}
	gen.Add(opts.Name+".yaml", encoding.GhodssYAML(dpl, srv))
}
