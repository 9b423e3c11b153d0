package dockerimage

import "fmt"

type Image struct {
	Organization string
	Project      string
	Version      string
}

func (i Image) String() string {
	prefix := i.Organization
	if prefix != "" {
		prefix += "/"
	}
	return fmt.Sprintf("%s%s:%s", prefix, i.Project, i.Version)
}

func PublicPrometheus(tag string) Image {
	return Image{
		Organization: "quay.io/prometheus",
		Project:      "prometheus",
		Version:      tag,
	}
}

// Loadtester is the project image bundling the locustfile that replays
// generated scenarios against a demo application.
func Loadtester(tag string) Image {
	return Image{
		Organization: "ghcr.io/graz-dev",
		Project:      "java-on-kubernetes-loadtester",
		Version:      tag,
	}
}
