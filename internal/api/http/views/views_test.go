package views_test

import (
	"bytes"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/invoich-web/internal/api/http/views"
)

func TestPagesRenderInsideLayout(t *testing.T) {
	t.Parallel()

	engine, err := views.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = engine.Render(&buf, "error", fiber.Map{
		"Title":   "Not Found",
		"Status":  404,
		"Message": "<script>alert(1)</script>",
	}, views.Layout)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<title>Not Found | Invoich</title>")
	assert.Contains(t, out, "<h1>404</h1>")
	assert.Contains(t, out, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, out, "<script>alert(1)</script>")
}

func TestEveryPageParses(t *testing.T) {
	t.Parallel()

	engine, err := views.New()
	require.NoError(t, err)

	for _, page := range []string{"home", "otp", "password", "customers", "confirm_delete", "customer_view", "error"} {
		assert.NotNil(t, engine.Templates.Lookup(page), page)
	}
}
