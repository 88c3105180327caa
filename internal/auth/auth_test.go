package auth

import (
	"context"
	"testing"
)

func TestAllowAlwaysSucceeds(t *testing.T) {
	outcome, err := Allow{}.Attempt(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if outcome != Succeeded {
		t.Fatalf("outcome = %s, want succeeded", outcome)
	}
}

func TestPasscodeEmptyIsUnavailable(t *testing.T) {
	p, err := NewPasscode("")
	if err != nil {
		t.Fatal(err)
	}

	outcome, err := p.Attempt(WithCode(context.Background(), "anything"))
	if err != nil {
		t.Fatal(err)
	}
	if outcome != Unavailable {
		t.Fatalf("outcome = %s, want unavailable", outcome)
	}
}

func TestPasscodeVerification(t *testing.T) {
	p, err := NewPasscode("1234")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		code string
		want Outcome
	}{
		{"correct code", "1234", Succeeded},
		{"wrong code", "4321", Failed},
		{"empty submission", "", Failed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := p.Attempt(WithCode(context.Background(), tt.code))
			if err != nil {
				t.Fatal(err)
			}
			if outcome != tt.want {
				t.Fatalf("outcome = %s, want %s", outcome, tt.want)
			}
		})
	}
}

func TestPasscodeNoCollectionMeansUnavailable(t *testing.T) {
	p, err := NewPasscode("1234")
	if err != nil {
		t.Fatal(err)
	}

	// no Prompt and no code in context
	outcome, err := p.Attempt(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if outcome != Unavailable {
		t.Fatalf("outcome = %s, want unavailable", outcome)
	}
}

func TestPasscodePromptTakesPrecedence(t *testing.T) {
	p, err := NewPasscode("1234")
	if err != nil {
		t.Fatal(err)
	}
	p.Prompt = func(ctx context.Context) (string, error) {
		return "1234", nil
	}

	outcome, err := p.Attempt(WithCode(context.Background(), "wrong"))
	if err != nil {
		t.Fatal(err)
	}
	if outcome != Succeeded {
		t.Fatal("prompt result must win over the context code")
	}
}
