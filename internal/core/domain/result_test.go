package domain

import "testing"

func TestResultConstructors(t *testing.T) {
	ok := OK(42)
	if !ok.Success || ok.Data != 42 {
		t.Fatalf("OK() = %+v", ok)
	}

	msg := OKMsg("payload", "done")
	if !msg.Success || msg.Message != "done" || msg.Data != "payload" {
		t.Fatalf("OKMsg() = %+v", msg)
	}

	fail := Fail[int]("broken", "detail one", "detail two")
	if fail.Success {
		t.Fatal("Fail() must not be successful")
	}
	if fail.Data != 0 {
		t.Fatalf("failure result carries data: %v", fail.Data)
	}
	if len(fail.Errors) != 2 {
		t.Fatalf("errors = %v", fail.Errors)
	}
}
