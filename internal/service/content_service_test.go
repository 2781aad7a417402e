package service

import "testing"

func TestRenderTemplate(t *testing.T) {
	out, err := renderTemplate("为{{.grade}}年级设计一份{{.subject}}教案", map[string]string{
		"grade":   "三",
		"subject": "数学",
	})
	if err != nil {
		t.Fatalf("renderTemplate: %v", err)
	}
	if out != "为三年级设计一份数学教案" {
		t.Errorf("out = %q", out)
	}
}

func TestRenderTemplate_MissingVariable(t *testing.T) {
	out, err := renderTemplate("主题: {{.topic}}", nil)
	if err != nil {
		t.Fatalf("renderTemplate: %v", err)
	}
	// missingkey=zero renders absent map keys as empty, not an error.
	if out != "主题: " {
		t.Errorf("out = %q", out)
	}
}

func TestRenderTemplate_BadSyntax(t *testing.T) {
	if _, err := renderTemplate("{{.open", nil); err == nil {
		t.Fatal("expected parse error")
	}
}
