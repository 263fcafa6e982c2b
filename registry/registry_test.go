package registry

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/multierr"
	"metricd.example.org/api"
	"metricd.example.org/config"
)

func releaseCounter() (*UserData, *int) {
	n := 0
	return &UserData{Data: "x", Release: func(interface{}) { n++ }}, &n
}

func TestRegisterReadReplaceReleasesOldOnce(t *testing.T) {
	r := NewRegistry()
	ud1, n1 := releaseCounter()
	ud2, n2 := releaseCounter()

	r.RegisterRead("cpu", time.Second, ReaderFunc(func() error { return nil }), ud1)
	r.RegisterRead("cpu", time.Second, ReaderFunc(func() error { return nil }), ud2)

	if *n1 != 1 {
		t.Errorf("old UserData released %d times, want 1", *n1)
	}
	if *n2 != 0 {
		t.Errorf("new UserData released %d times, want 0", *n2)
	}
	if len(r.Reads()) != 1 {
		t.Errorf("Reads() = %d entries, want 1", len(r.Reads()))
	}

	if err := r.ShutdownAll(); err != nil {
		t.Fatalf("ShutdownAll: %v", err)
	}
	if *n2 != 1 {
		t.Errorf("surviving UserData released %d times, want 1", *n2)
	}
	if *n1 != 1 {
		t.Errorf("old UserData released %d times after ShutdownAll, want still 1", *n1)
	}
}

func TestRegisterWriteReplaceReleasesOldOnce(t *testing.T) {
	r := NewRegistry()
	ud1, n1 := releaseCounter()
	ud2, n2 := releaseCounter()

	w := api.WriterFunc(func(*api.ValueList) error { return nil })
	r.RegisterWrite("sink", w, ud1)
	r.RegisterWrite("sink", w, ud2)

	if *n1 != 1 {
		t.Errorf("old UserData released %d times, want 1", *n1)
	}
	if len(r.Writers()) != 1 {
		t.Errorf("Writers() = %d entries, want 1", len(r.Writers()))
	}

	r.ShutdownAll()
	if *n2 != 1 {
		t.Errorf("surviving UserData released %d times, want 1", *n2)
	}
}

func TestUnregisterReleasesOnceAndRemoves(t *testing.T) {
	r := NewRegistry()
	ud, n := releaseCounter()
	r.RegisterRead("cpu", time.Second, ReaderFunc(func() error { return nil }), ud)

	if !r.UnregisterRead("cpu") {
		t.Fatal("UnregisterRead(\"cpu\") = false, want true")
	}
	if *n != 1 {
		t.Errorf("released %d times, want 1", *n)
	}
	if len(r.Reads()) != 0 {
		t.Errorf("Reads() = %d entries, want 0", len(r.Reads()))
	}

	if r.UnregisterRead("cpu") {
		t.Error("UnregisterRead(\"cpu\") second call = true, want false")
	}

	if err := r.ShutdownAll(); err != nil {
		t.Fatalf("ShutdownAll: %v", err)
	}
	if *n != 1 {
		t.Errorf("released %d times after ShutdownAll, want still 1", *n)
	}
}

func TestUnregisterWriteNotificationFlush(t *testing.T) {
	r := NewRegistry()

	r.RegisterWrite("w", api.WriterFunc(func(*api.ValueList) error { return nil }), nil)
	if !r.UnregisterWrite("w") || len(r.Writers()) != 0 {
		t.Error("UnregisterWrite did not remove the entry")
	}

	r.RegisterNotification("n", api.NotificationWriterFunc(func(*api.Notification) error { return nil }), nil)
	if !r.UnregisterNotification("n") || len(r.Notifiers()) != 0 {
		t.Error("UnregisterNotification did not remove the entry")
	}

	r.RegisterFlush("f", FlusherFunc(func(time.Duration, string) error { return nil }), nil)
	if !r.UnregisterFlush("f") || len(r.Flushes()) != 0 {
		t.Error("UnregisterFlush did not remove the entry")
	}
}

func TestShutdownAllReverseOrder(t *testing.T) {
	r := NewRegistry()

	var order []string
	r.RegisterShutdown("first", ShutdownerFunc(func() error {
		order = append(order, "first")
		return nil
	}))
	r.RegisterShutdown("second", ShutdownerFunc(func() error {
		order = append(order, "second")
		return nil
	}))
	r.RegisterShutdown("third", ShutdownerFunc(func() error {
		order = append(order, "third")
		return nil
	}))

	if err := r.ShutdownAll(); err != nil {
		t.Fatalf("ShutdownAll: %v", err)
	}

	want := []string{"third", "second", "first"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
			break
		}
	}
}

func TestShutdownAllAggregatesErrorsAndRunsEveryCallback(t *testing.T) {
	r := NewRegistry()

	errA := errors.New("a failed")
	errC := errors.New("c failed")

	var ran []string
	r.RegisterShutdown("a", ShutdownerFunc(func() error {
		ran = append(ran, "a")
		return errA
	}))
	r.RegisterShutdown("b", ShutdownerFunc(func() error {
		ran = append(ran, "b")
		return nil
	}))
	r.RegisterShutdown("c", ShutdownerFunc(func() error {
		ran = append(ran, "c")
		return errC
	}))

	err := r.ShutdownAll()
	if err == nil {
		t.Fatal("ShutdownAll returned nil, want an aggregated error")
	}
	if got := multierr.Errors(err); len(got) != 2 {
		t.Errorf("multierr.Errors(err) = %v, want 2 errors", got)
	}
	if len(ran) != 3 {
		t.Errorf("ran = %v, want all three shutdown callbacks to run", ran)
	}
}

func TestConfigDispatch(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Config("missing"); ok {
		t.Error("Config(\"missing\") ok = true, want false")
	}
	if _, ok := r.ComplexConfig("missing"); ok {
		t.Error("ComplexConfig(\"missing\") ok = true, want false")
	}

	var gotKey, gotValue string
	r.RegisterConfig("simple", func(key, value string) error {
		gotKey, gotValue = key, value
		return nil
	})
	cb, ok := r.Config("simple")
	if !ok {
		t.Fatal("Config(\"simple\") ok = false, want true")
	}
	if err := cb("Interval", "10"); err != nil {
		t.Fatalf("cb: %v", err)
	}
	if gotKey != "Interval" || gotValue != "10" {
		t.Errorf("got (%q, %q), want (Interval, 10)", gotKey, gotValue)
	}

	var gotBlock bool
	r.RegisterComplexConfig("complex", func(b *config.Block) error {
		gotBlock = true
		return nil
	})
	complexCb, ok := r.ComplexConfig("complex")
	if !ok {
		t.Fatal("ComplexConfig(\"complex\") ok = false, want true")
	}
	if err := complexCb(&config.Block{Key: "Plugin"}); err != nil {
		t.Fatalf("complexCb: %v", err)
	}
	if !gotBlock {
		t.Error("complex config callback was not invoked")
	}
}
