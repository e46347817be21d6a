package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFeedbackBodyEscapesModelText(t *testing.T) {
	body := buildFeedbackBody(
		`Concurrency <Final>`,
		`Good answer. Remember: a < b means "less than". <script>alert(1)</script>`,
		0.85,
	)

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "Concurrency &lt;Final&gt;")
	assert.Contains(t, body, "85%")
}
