package authflow

import (
	"net/url"
	"testing"
)

func TestParseCallbackToken(t *testing.T) {
	res := ParseCallback(url.Values{"token": {"tok-abc"}, "name": {"Priya"}})
	if res.State != StateSuccess {
		t.Fatalf("state = %s", res.State)
	}
	if res.Token != "tok-abc" || res.DisplayName != "Priya" {
		t.Errorf("result = %+v", res)
	}
}

func TestParseCallbackErrorWinsOverToken(t *testing.T) {
	res := ParseCallback(url.Values{"error": {"access_denied"}, "token": {"tok-abc"}})
	if res.State != StateError {
		t.Fatalf("state = %s, provider error must win", res.State)
	}
	if res.Message != "access_denied" {
		t.Errorf("Message = %q", res.Message)
	}
	if res.Token != "" {
		t.Errorf("Token = %q, must not carry a token in error state", res.Token)
	}
}

func TestParseCallbackNeither(t *testing.T) {
	res := ParseCallback(url.Values{})
	if res.State != StateError {
		t.Fatalf("state = %s", res.State)
	}
	if res.Message != "no token received" {
		t.Errorf("Message = %q", res.Message)
	}
}

func TestParseCallbackNameOptional(t *testing.T) {
	res := ParseCallback(url.Values{"token": {"tok"}})
	if res.State != StateSuccess || res.DisplayName != "" {
		t.Errorf("result = %+v", res)
	}
}
