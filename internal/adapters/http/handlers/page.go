package handlers

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static/upload.html
var uploadPage []byte

// UploadPage serves the browser upload form at GET /.
func UploadPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", uploadPage)
}
