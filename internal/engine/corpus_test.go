package engine

import "testing"

func TestPostingsPartNameDefaultsToBareName(t *testing.T) {
	if got := postingsPartName(""); got != "postings" {
		t.Fatalf("postingsPartName(\"\") = %q, want \"postings\"", got)
	}
	if got := postingsPartName(DefaultFieldName); got != "postings" {
		t.Fatalf("postingsPartName(default) = %q, want \"postings\"", got)
	}
	if got := postingsPartName("title"); got != "title.postings" {
		t.Fatalf("postingsPartName(title) = %q, want \"title.postings\"", got)
	}
}

func TestLengthsPartNameDefaultsToBareName(t *testing.T) {
	if got := lengthsPartName(""); got != "lengths" {
		t.Fatalf("lengthsPartName(\"\") = %q, want \"lengths\"", got)
	}
	if got := lengthsPartName("title"); got != "title.lengths" {
		t.Fatalf("lengthsPartName(title) = %q, want \"title.lengths\"", got)
	}
}
