package cmd

import "testing"

func TestPurposeList(t *testing.T) {
	want := "content-gen, quiz-gen, grading, speech, key-check"
	if got := purposeList(); got != want {
		t.Errorf("purposeList() = %q, want %q", got, want)
	}
}
