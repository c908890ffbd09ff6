package main

import (
	"os"

	"github.com/askiada/hatstall/pkg/pipeline"
)

func kindNames(sys *pipeline.System) []string {
	stages := sys.Stages()
	res := make([]string, len(stages))
	for i, st := range stages {
		res[i] = string(st.Kind())
	}
	return res
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
