package focus

import (
	"reflect"
	"testing"

	"github.com/wayice/wayice/internal/input"
	"github.com/wayice/wayice/internal/surface/surfacetest"
)

func TestRouter_KeyboardFocusChangeSendsLeaveAndEnter(t *testing.T) {
	log := &surfacetest.Log{}
	a := surfacetest.NewSurface("a", 1, 1, log)
	b := surfacetest.NewSurface("b", 2, 2, log)
	r := NewRouter(seat)

	r.SetKeyboardFocus(KeyboardFromWindow(surfacetest.NativeWindow(a)), 1)
	r.Key(input.Keysym{Code: 42}, input.KeyPressed, 2, 0)
	r.SetKeyboardFocus(KeyboardFromWindow(surfacetest.NativeWindow(b)), 3)

	want := []string{
		"a:key-enter(1,0)",
		"a:key(42,1)",
		"a:key-leave(3)",
		"b:key-enter(3,1)",
	}
	if got := log.Events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("events mismatch\n got: %v\nwant: %v", got, want)
	}
}

func TestRouter_ReleasedKeysAreNotReplayed(t *testing.T) {
	log := &surfacetest.Log{}
	a := surfacetest.NewSurface("a", 1, 1, log)
	r := NewRouter(seat)

	r.Key(input.Keysym{Code: 30}, input.KeyPressed, 1, 0)
	r.Key(input.Keysym{Code: 31}, input.KeyPressed, 2, 0)
	r.Key(input.Keysym{Code: 30}, input.KeyReleased, 3, 0)
	r.SetKeyboardFocus(KeyboardFromLayerSurface(&surfacetest.Layer{Surface: a}), 4)

	want := []string{"a:key-enter(4,1)"}
	if got := log.Events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("events mismatch\n got: %v\nwant: %v", got, want)
	}
}

func TestRouter_DeadKeyboardTargetIsDropped(t *testing.T) {
	log := &surfacetest.Log{}
	s := surfacetest.NewSurface("a", 1, 1, log)
	popup := &surfacetest.Popup{Surface: s}
	r := NewRouter(seat)

	r.SetKeyboardFocus(KeyboardFromPopup(popup), 1)
	popup.Kill()
	log.Reset()

	if r.Key(input.Keysym{Code: 30}, input.KeyPressed, 2, 0) {
		t.Fatal("key delivered to dead popup")
	}
	if r.Modifiers(input.Modifiers{Ctrl: true}, 3) {
		t.Fatal("modifiers delivered after focus was dropped")
	}
	if r.KeyboardFocus().Kind() != KeyboardFocusNone {
		t.Fatalf("focus kind = %v, want none", r.KeyboardFocus().Kind())
	}
	if got := log.Events(); len(got) != 0 {
		t.Fatalf("dead target received events: %v", got)
	}
}

func TestRouter_DeadPointerTargetIsDropped(t *testing.T) {
	log := &surfacetest.Log{}
	x := surfacetest.NewX11("x", 0x200001, 1, log)
	r := NewRouter(seat)

	r.SetPointerFocus(PointerFromX11(x), input.MotionEvent{Serial: 1})
	if !r.Motion(input.MotionEvent{Location: input.Point{X: 3, Y: 4}}) {
		t.Fatal("motion not delivered to live target")
	}
	x.Kill()

	if r.Button(input.ButtonEvent{Button: 272}) {
		t.Fatal("button delivered to dead target")
	}
	if r.Touch(func(tt input.TouchTarget, s *input.Seat) { tt.TouchFrame(s, 0) }) {
		t.Fatal("touch delivered after focus was dropped")
	}
	if r.Gesture(func(pt input.PointerTarget, s *input.Seat) {
		pt.GestureHoldBegin(s, input.GestureHoldBeginEvent{})
	}) {
		t.Fatal("gesture delivered after focus was dropped")
	}

	want := []string{"x:enter(1)", "x:motion(3,4)"}
	if got := log.Events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("events mismatch\n got: %v\nwant: %v", got, want)
	}
}

func TestRouter_SettingDeadTargetClearsFocus(t *testing.T) {
	s := surfacetest.NewSurface("a", 1, 1, nil)
	s.Kill()
	r := NewRouter(seat)

	r.SetPointerFocus(PointerFromSurface(s), input.MotionEvent{})
	if r.PointerFocus().Kind() != PointerFocusNone {
		t.Fatalf("pointer focus kind = %v, want none", r.PointerFocus().Kind())
	}
	if r.Frame() {
		t.Fatal("frame delivered without focus")
	}
}

func TestRouter_FocusPointerFromKeyboard(t *testing.T) {
	log := &surfacetest.Log{}
	backing := surfacetest.NewSurface("popup", 1, 1, log)
	r := NewRouter(seat)

	r.SetKeyboardFocus(KeyboardFromPopup(&surfacetest.Popup{Surface: backing}), 1)
	r.FocusPointerFromKeyboard(input.MotionEvent{Serial: 2})

	got, ok := r.PointerFocus().Surface()
	if !ok || got != backing {
		t.Fatalf("pointer focus = %v, want popup backing surface", r.PointerFocus().Kind())
	}

	r.Axis(input.AxisFrame{Vertical: 1})
	r.Frame()
	want := []string{"popup:key-enter(1,0)", "popup:enter(2)", "popup:axis", "popup:frame"}
	if events := log.Events(); !reflect.DeepEqual(events, want) {
		t.Fatalf("events mismatch\n got: %v\nwant: %v", events, want)
	}
}

func TestRouter_SameTargetIsNoop(t *testing.T) {
	log := &surfacetest.Log{}
	s := surfacetest.NewSurface("a", 1, 1, log)
	r := NewRouter(seat)

	target := PointerFromSurface(s)
	r.SetPointerFocus(target, input.MotionEvent{Serial: 1})
	r.SetPointerFocus(target, input.MotionEvent{Serial: 2})

	want := []string{"a:enter(1)"}
	if got := log.Events(); !reflect.DeepEqual(got, want) {
		t.Fatalf("events mismatch\n got: %v\nwant: %v", got, want)
	}
}
