package rest

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

var openAPIJSON = sync.OnceValues(func() ([]byte, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(openAPIYAML, &doc); err != nil {
		return nil, fmt.Errorf("error parsing openapi.yaml: %w", err)
	}
	return json.Marshal(doc)
})

const swaggerPage = `<!DOCTYPE html>
<html lang="id">
<head>
  <meta charset="utf-8">
  <title>SISNOMPEG Admin API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => { window.ui = SwaggerUIBundle({ url: "/api/openapi.json", dom_id: "#swagger-ui" }); };
  </script>
</body>
</html>
`

func registerDocs(router *gin.Engine) {
	api := router.Group("/api")
	api.GET("", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerPage))
	})
	api.GET("/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", openAPIYAML)
	})
	api.GET("/openapi.json", func(c *gin.Context) {
		doc, err := openAPIJSON()
		if err != nil {
			writeError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
	})
}
