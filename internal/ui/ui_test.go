package ui

import "testing"

func TestRenderNoColor(t *testing.T) {
	ForceNoColor()
	for _, got := range []string{
		RenderAccent("x"),
		RenderMuted("x"),
		RenderStatus(201, "x"),
		RenderStatus(500, "x"),
	} {
		if got != "x" {
			t.Errorf("got %q, want plain text", got)
		}
	}
}

func TestRenderStatusColor(t *testing.T) {
	saved := noColor
	noColor = false
	t.Cleanup(func() { noColor = saved })

	for _, tc := range []struct {
		code  int
		color string
	}{
		{204, "114"},
		{400, "179"},
		{500, "203"},
	} {
		got := RenderStatus(tc.code, "x")
		want := "\x1b[38;5;" + tc.color + "mx\x1b[0m"
		if got != want {
			t.Errorf("RenderStatus(%d) = %q, want %q", tc.code, got, want)
		}
	}
}

func TestShouldUseColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if ShouldUseColor() {
		t.Error("NO_COLOR must disable color")
	}
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR_FORCE", "1")
	if !ShouldUseColor() {
		t.Error("CLICOLOR_FORCE=1 must enable color")
	}
	t.Setenv("CLICOLOR_FORCE", "")
	t.Setenv("CLICOLOR", "0")
	if ShouldUseColor() {
		t.Error("CLICOLOR=0 must disable color")
	}
}

func TestShouldUseColor_TTY(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR_FORCE", "")
	t.Setenv("CLICOLOR", "")
	saved := isTerminal
	t.Cleanup(func() { isTerminal = saved })

	for _, tty := range []bool{true, false} {
		isTerminal = func(int) bool { return tty }
		if got := ShouldUseColor(); got != tty {
			t.Errorf("ShouldUseColor() with tty=%v = %v", tty, got)
		}
	}
}
