package handlers_test

import (
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/ogtodo/internal/translator"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := translator.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}
