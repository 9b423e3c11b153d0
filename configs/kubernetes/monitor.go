package k8s

import (
	"fmt"
	"io"
	"io/ioutil"
	"time"

	"github.com/bwplotka/mimic"
	"github.com/bwplotka/mimic/abstractions/kubernetes/volumes"
	"github.com/bwplotka/mimic/encoding"
	"github.com/bwplotka/mimic/providers/prometheus"
	sdconfig "github.com/bwplotka/mimic/providers/prometheus/discovery/config"
	"github.com/bwplotka/mimic/providers/prometheus/discovery/kubernetes"
	"github.com/go-openapi/swag"
	"github.com/prometheus/common/model"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	v1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/graz-dev/java-on-kubernetes/configs/abstractions/dockerimage"
)

// GenMonitor generates a minimal Prometheus scraping the demo namespace pods,
// enough to follow the scenario driven load and the resulting autoscaling.
func GenMonitor(gen *mimic.Generator, namespace string) {
	const name = "monitor"
	GenPrometheus(gen, PrometheusOpts{
		Namespace: namespace,
		Name:      name,

		Img:       dockerimage.PublicPrometheus("v2.37.0"),
		Retention: "2d",
		Resources: corev1.ResourceRequirements{
			Requests: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("500m"),
				corev1.ResourceMemory: resource.MustParse("512Mi"),
			},
			Limits: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("1"),
				corev1.ResourceMemory: resource.MustParse("1Gi"),
			},
		},
		ServiceAccountName: name,
		Config: prometheus.Config{
			GlobalConfig: prometheus.GlobalConfig{
				ExternalLabels: map[model.LabelName]model.LabelValue{
					"monitor": "0",
				},
				ScrapeInterval: model.Duration(15 * time.Second),
			},
			ScrapeConfigs: []*prometheus.ScrapeConfig{
				{
					JobName: "kubernetes-pods",
					ServiceDiscoveryConfig: sdconfig.ServiceDiscoveryConfig{
						KubernetesSDConfigs: []*kubernetes.SDConfig{
							{
								Role:               kubernetes.RolePod,
								NamespaceDiscovery: kubernetes.NamespaceDiscovery{Names: []string{namespace}},
							},
						},
					},
					RelabelConfigs: []*prometheus.RelabelConfig{
						{
							SourceLabels: model.LabelNames{"__meta_kubernetes_pod_annotation_prometheus_io_scrape"},
							Action:       prometheus.RelabelKeep,
							Regex:        prometheus.MustNewRegexp("true"),
						},
						{
							SourceLabels: model.LabelNames{"__meta_kubernetes_pod_annotation_prometheus_io_path"},
							Action:       prometheus.RelabelReplace,
							Regex:        prometheus.MustNewRegexp("(.+)"),
							TargetLabel:  "__metrics_path__",
						},
						{
							SourceLabels: model.LabelNames{"__address__", "__meta_kubernetes_pod_annotation_prometheus_io_port"},
							Action:       prometheus.RelabelReplace,
							Regex:        prometheus.MustNewRegexp(`([^:]+)(?::\d+)?;(\d+)`),
							Replacement:  "$1:$2",
							TargetLabel:  "__address__",
						},
						{
							SourceLabels: model.LabelNames{"__meta_kubernetes_namespace"},
							Action:       prometheus.RelabelReplace,
							TargetLabel:  "namespace",
						},
						{
							SourceLabels: model.LabelNames{"__meta_kubernetes_pod_name"},
							Action:       prometheus.RelabelReplace,
							TargetLabel:  "pod",
						},
						{
							SourceLabels: model.LabelNames{"__meta_kubernetes_pod_label_app"},
							Action:       prometheus.RelabelReplace,
							TargetLabel:  "job",
						},
					},
				},
			},
		},
	})

	clr := v1.ClusterRole{
		TypeMeta: metav1.TypeMeta{
			Kind:       "ClusterRole",
			APIVersion: "rbac.authorization.k8s.io/v1",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
			Labels: map[string]string{
				selectorName: name,
			},
		},
		Rules: []v1.PolicyRule{
			{
				APIGroups: []string{""},
				Resources: []string{
					"services",
					"endpoints",
					"pods",
				},
				Verbs: []string{
					"list",
					"watch",
					"get",
				},
			},
		},
	}

	clrBinding := v1.ClusterRoleBinding{
		TypeMeta: metav1.TypeMeta{
			Kind:       "ClusterRoleBinding",
			APIVersion: "rbac.authorization.k8s.io/v1",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
			Labels: map[string]string{
				selectorName: name,
			},
		},
		RoleRef: v1.RoleRef{
			APIGroup: "rbac.authorization.k8s.io",
			Kind:     "ClusterRole",
			Name:     name,
		},
		Subjects: []v1.Subject{
			{
				Kind:      v1.ServiceAccountKind,
				Name:      name,
				Namespace: namespace,
			},
		},
	}

	svc := corev1.ServiceAccount{
		TypeMeta: metav1.TypeMeta{
			Kind:       "ServiceAccount",
			APIVersion: "v1",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
			Labels: map[string]string{
				selectorName: name,
			},
		},
	}

	gen.Add(name+"-roles.yaml", encoding.GhodssYAML(clrBinding, clr, svc))
}

func genInPlace(r io.Reader) []byte {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		mimic.PanicErr(err)
	}
	return b
}

type PrometheusOpts struct {
	Namespace string
	Name      string

	Config    prometheus.Config
	Img       dockerimage.Image
	Resources corev1.ResourceRequirements

	ServiceAccountName string
	Retention          string
}

// NOTE: No persistent volume on purpose, the monitor is disposable with the demo.
func GenPrometheus(gen *mimic.Generator, opts PrometheusOpts) {
	const (
		replicas = 1

		configVolumeMount = "/etc/prometheus"
		dataPath          = "/data"

		httpPort = 9090
	)
	configVolumeName := fmt.Sprintf("%s-config", opts.Name)

	promConfigAndMount := volumes.ConfigAndMount{
		ObjectMeta: metav1.ObjectMeta{
			Name:      configVolumeName,
			Namespace: opts.Namespace,
			Labels: map[string]string{
				selectorName: opts.Name,
			},
		},
		VolumeMount: corev1.VolumeMount{
			Name:      configVolumeName,
			MountPath: configVolumeMount,
		},
		Data: map[string]string{
			"prometheus.yaml": string(genInPlace(encoding.YAML(opts.Config))),
		},
	}

	dataVM := volumes.VolumeAndMount{
		VolumeMount: corev1.VolumeMount{
			Name:      opts.Name,
			MountPath: dataPath,
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
			Type:      corev1.ServiceTypeClusterIP,
			ClusterIP: corev1.ClusterIPNone,
			Selector: map[string]string{
				selectorName: opts.Name,
			},
			Ports: []corev1.ServicePort{
				{
					Name:       "http",
					Port:       httpPort,
					TargetPort: intstr.FromInt(httpPort),
				},
			},
		},
	}

	prometheusContainer := corev1.Container{
		Name:  "prometheus",
		Image: opts.Img.String(),
		Args: []string{
			fmt.Sprintf("--config.file=%v/prometheus.yaml", configVolumeMount),
			"--log.level=info",
			fmt.Sprintf("--storage.tsdb.path=%s", dataPath),
			fmt.Sprintf("--storage.tsdb.retention.time=%s", opts.Retention),
			"--web.enable-lifecycle",
		},
		Env: []corev1.EnvVar{
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
					Port: intstr.FromInt(httpPort),
					Path: "/-/ready",
				},
			},
			SuccessThreshold: 3,
		},
		LivenessProbe: &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				HTTPGet: &corev1.HTTPGetAction{
					Path: "/-/healthy",
					Port: intstr.FromInt(httpPort),
				},
			},
			InitialDelaySeconds: 30,
			TimeoutSeconds:      30,
		},
		Ports: []corev1.ContainerPort{
			{
				Name:          "http",
				ContainerPort: httpPort,
			},
		},
		VolumeMounts: volumes.VolumesAndMounts{promConfigAndMount.VolumeAndMount(), dataVM}.VolumeMounts(),
		SecurityContext: &corev1.SecurityContext{
			RunAsNonRoot: swag.Bool(false),
			RunAsUser:    swag.Int64(1000),
		},
		Resources: opts.Resources,
	}

	set := appsv1.StatefulSet{
		TypeMeta: metav1.TypeMeta{
			Kind:       "StatefulSet",
			APIVersion: "apps/v1",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      opts.Name,
			Namespace: opts.Namespace,
			Labels: map[string]string{
				selectorName: opts.Name,
			},
		},
		Spec: appsv1.StatefulSetSpec{
			Replicas:    swag.Int32(replicas),
			ServiceName: opts.Name,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: map[string]string{
						selectorName: opts.Name,
					},
				},
				Spec: corev1.PodSpec{
					ServiceAccountName: opts.ServiceAccountName,
					Containers:         []corev1.Container{prometheusContainer},
					Volumes:            volumes.VolumesAndMounts{promConfigAndMount.VolumeAndMount(), dataVM}.Volumes(),
				},
			},
			Selector: &metav1.LabelSelector{
				MatchLabels: map[string]string{
					selectorName: opts.Name,
				},
			},
		},
	}
	gen.Add(opts.Name+".yaml", encoding.GhodssYAML(set, srv, promConfigAndMount.ConfigMap()))
}
