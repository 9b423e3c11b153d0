package main

import (
	"github.com/bwplotka/mimic"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/graz-dev/java-on-kubernetes/configs/abstractions/dockerimage"
	k8s "github.com/graz-dev/java-on-kubernetes/configs/kubernetes"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	namespace = "microservices-demo"
)

func main() {
	generator := mimic.New(func(cmd *kingpin.CmdClause) {
		cmd.GetFlag("output").Default("manifests")
	})

	// Make sure to generate at the very end.
	defer generator.Generate()

	{
		generator := generator.With("monitoring")
		k8s.GenMonitor(generator, namespace)
	}

	// One loadtester per demo application. All of them replay the schedule from
	// the scenario ConfigMap produced by `scenariogen gen`.
	{
		generator := generator.With("loadtesters")

		resources := corev1.ResourceRequirements{
			Requests: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("500m"),
				corev1.ResourceMemory: resource.MustParse("256Mi"),
			},
			Limits: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("1"),
				corev1.ResourceMemory: resource.MustParse("512Mi"),
			},
		}

		k8s.GenLoadtester(generator, k8s.LoadtesterOpts{
			Namespace:         namespace,
			Name:              "loadtester-petclinic",
			Img:               dockerimage.Loadtester("latest"),
			Resources:         resources,
			ScenarioConfigMap: "test-scenario",
			TargetURL:         "http://petclinic:8080",
		})
		k8s.GenLoadtester(generator, k8s.LoadtesterOpts{
			Namespace:         namespace,
			Name:              "loadtester-boutique",
			Img:               dockerimage.Loadtester("latest"),
			Resources:         resources,
			ScenarioConfigMap: "test-scenario",
			TargetURL:         "http://frontend:80",
		})
	}
}
