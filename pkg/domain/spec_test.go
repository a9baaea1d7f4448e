package domain

import (
	"errors"
	"testing"
)

func TestDefaultAdapterRoundTrip(t *testing.T) {
	version := "1.2.3"
	p := Product{ID: 5, SKU: "ABC", Price: 9.5, Currency: "SEK", Version: &version}

	rec, err := EncodeRecord(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if rec["sku"] != "ABC" {
		t.Fatalf("expected snake_case sku key, got %v", rec)
	}
	back, err := DecodeRecord[Product](rec)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.ID != 5 || back.SKU != "ABC" || back.Price != 9.5 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
	if back.Version == nil || *back.Version != "1.2.3" {
		t.Fatalf("expected version 1.2.3, got %v", back.Version)
	}
	if back.Tag != nil {
		t.Fatalf("expected nil tag, got %v", *back.Tag)
	}
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	rec := Record{"id": float64(1), "name": "Alice", "legacy_field": "ignored"}
	u, err := DecodeRecord[User](rec)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.ID != 1 || u.Name != "Alice" {
		t.Fatalf("unexpected decode: %+v", u)
	}
}

func TestSpecAdapterOverride(t *testing.T) {
	spec := Spec[User]{
		Table: "users",
		Decode: func(rec Record) (User, error) {
			u, err := DecodeRecord[User](rec)
			if err != nil {
				return User{}, err
			}
			if u.Name == "" {
				u.Name = "anonymous"
			}
			return u, nil
		},
	}
	u, err := spec.DecodeRecord(Record{"id": float64(1)})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.Name != "anonymous" {
		t.Fatalf("expected override to apply, got %q", u.Name)
	}
}

func TestNoCaseFor(t *testing.T) {
	spec := Spec[User]{
		Table:  "users",
		Unique: []UniqueRule{Unique("name", true), Unique("email", false)},
	}
	if !spec.NoCaseFor("name") {
		t.Fatalf("expected name to be case-insensitive")
	}
	if spec.NoCaseFor("email") {
		t.Fatalf("expected email to be case-sensitive")
	}
	if spec.NoCaseFor("other") {
		t.Fatalf("expected undeclared field to default to case-sensitive")
	}
}

func TestUniqueViolationCode(t *testing.T) {
	err := UniqueViolation("sku")
	if err.Error() != "unique_violation:sku" {
		t.Fatalf("unexpected code: %s", err.Error())
	}
	field, ok := IsUniqueViolation(err)
	if !ok || field != "sku" {
		t.Fatalf("IsUniqueViolation = (%q, %v)", field, ok)
	}
	if _, ok := IsUniqueViolation(ErrNotFound); ok {
		t.Fatalf("not_found should not parse as unique violation")
	}
}

func TestFailureSentinels(t *testing.T) {
	if !errors.Is(error(ErrNotFound), ErrNotFound) {
		t.Fatalf("sentinel comparison broken")
	}
	wrapped := ReadError(errors.New("boom"))
	if wrapped.Error() != "read error: boom" {
		t.Fatalf("unexpected wrap: %s", wrapped.Error())
	}
}

func TestResultFolding(t *testing.T) {
	ok := ResultOf(7, nil)
	if ok.Failed() || ok.Value != 7 {
		t.Fatalf("unexpected ok result: %+v", ok)
	}
	fail := ResultOf(0, ErrNotFound)
	if !fail.Failed() || fail.Err != "not_found" {
		t.Fatalf("unexpected fail result: %+v", fail)
	}
	if _, err := fail.Unwrap(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unwrap should restore the sentinel, got %v", err)
	}
}
