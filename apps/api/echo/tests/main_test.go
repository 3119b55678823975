package tests

import (
	"os"
	"testing"

	"github.com/vikasdeshmukh63/school-application-dashboard/core"
)

func TestMain(m *testing.M) {
	core.Conf.TestMode = true
	os.Exit(m.Run())
}
