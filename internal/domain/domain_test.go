package domain

import (
	"testing"
	"time"
)

func TestClientMerge(t *testing.T) {
	stored := Client{
		Name:       "Jane Doe",
		Mobile:     "555-0100",
		Occupation: "Nurse",
		Locale:     LocaleSpanish,
	}

	stored.Merge(Client{Name: "", Mobile: "555-0199", Occupation: "", Locale: ""})

	if stored.Name != "Jane Doe" {
		t.Errorf("blank incoming name clobbered stored value, got %q", stored.Name)
	}
	if stored.Mobile != "555-0199" {
		t.Errorf("expected mobile to update, got %q", stored.Mobile)
	}
	if stored.Occupation != "Nurse" {
		t.Errorf("blank incoming occupation clobbered stored value, got %q", stored.Occupation)
	}
	if stored.Locale != LocaleSpanish {
		t.Errorf("blank incoming locale clobbered stored value, got %q", stored.Locale)
	}
}

func TestIntakeTokenExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	fresh := IntakeToken{ExpiresAt: now.Add(time.Hour)}
	if fresh.Expired(now) {
		t.Error("token expiring in an hour reported as expired")
	}

	stale := IntakeToken{ExpiresAt: now.Add(-time.Minute)}
	if !stale.Expired(now) {
		t.Error("token past its expiry reported as valid")
	}
}

func TestIntakeTokenConsumed(t *testing.T) {
	used := time.Now()

	oneTime := IntakeToken{OneTime: true, UsedAt: &used}
	if !oneTime.Consumed() {
		t.Error("used one-time token reported as not consumed")
	}

	reusable := IntakeToken{OneTime: false, UsedAt: &used}
	if reusable.Consumed() {
		t.Error("reusable token reported as consumed")
	}

	unused := IntakeToken{OneTime: true}
	if unused.Consumed() {
		t.Error("unused one-time token reported as consumed")
	}
}

func TestRequiresSpouse(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{FilingSingle, false},
		{FilingMarriedJoint, true},
		{FilingMarriedSeparate, true},
		{FilingHeadOfHousehold, false},
		{FilingQualifyingWidow, false},
	}

	for _, tt := range tests {
		if got := RequiresSpouse(tt.status); got != tt.want {
			t.Errorf("RequiresSpouse(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestValidLocale(t *testing.T) {
	if !ValidLocale(LocaleSpanish) || !ValidLocale(LocaleEnglish) {
		t.Error("expected supported locales to validate")
	}
	if ValidLocale("fr") {
		t.Error("unsupported locale validated")
	}
}
