package appstate

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	toastHold = 1.6 // seconds at full opacity
	toastFade = 0.5
)

// toast is a transient status message that fades out once its hold time
// has passed.
type toast struct {
	text string
	hold float32
	fade *gween.Tween
}

func (t *toast) show(text string) {
	t.text = text
	t.hold = toastHold
	t.fade = gween.New(1, 0, toastFade, ease.InQuad)
}

func (t *toast) active() bool { return t.text != "" }

// advance moves the toast forward by dt seconds and returns its opacity.
func (t *toast) advance(dt float32) float32 {
	if t.text == "" {
		return 0
	}
	if t.hold > 0 {
		t.hold -= dt
		if t.hold >= 0 {
			return 1
		}
		dt = -t.hold
		t.hold = 0
	}
	alpha, done := t.fade.Update(dt)
	if done {
		t.text = ""
		return 0
	}
	return alpha
}
