package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// cd to the project root when testing, so relative paths (templates/,
	// logs/) resolve the same way they do for cmd/server. usage:
	//
	//   in some_test.go,
	//   import (
	//     _ "aquamon.io/water-quality-service/pkg/testing"
	//   )

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}
