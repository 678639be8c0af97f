package msg

import "testing"

func TestShowNotice(t *testing.T) {
	got, ok := ShowNotice("Note added successfully!")().(NoticeMsg)
	if !ok {
		t.Fatal("ShowNotice should produce a NoticeMsg")
	}
	if got.Message != "Note added successfully!" || got.IsError {
		t.Errorf("got %+v", got)
	}

	got = ShowError("oops")().(NoticeMsg)
	if !got.IsError {
		t.Error("ShowError should flag the notice as an error")
	}
}
