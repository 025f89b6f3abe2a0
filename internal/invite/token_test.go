package invite

import (
	"errors"
	"testing"
	"time"

	"github.com/darajahq/daraja/internal/domain"
	apperrors "github.com/darajahq/daraja/internal/errors"
)

func newTestSigner(t *testing.T, now func() time.Time) *Signer {
	t.Helper()
	signer, err := NewEphemeralSigner("daraja", "daraja-invites", now)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	return signer
}

func TestTokenSignValidateRoundTrip(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, fixedClock)
	expiresAt := testNow.Add(domain.DefaultInvitationTTL)
	token, err := signer.Sign("prog-1", domain.InvitationTypeCoPartner, expiresAt)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := signer.Validate(token, "prog-1")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.ProgramID != "prog-1" {
		t.Fatalf("program id = %q, want prog-1", claims.ProgramID)
	}
	if claims.InvitationType != domain.InvitationTypeCoPartner {
		t.Fatalf("invitation type = %v, want co-partner", claims.InvitationType)
	}
	if !claims.ExpiresAt.Equal(expiresAt) {
		t.Fatalf("expires_at = %v, want %v", claims.ExpiresAt, expiresAt)
	}
	if claims.JWTID == "" {
		t.Fatal("expected a jti")
	}
}

func TestTokenValidateRejectsProgramMismatch(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, fixedClock)
	token, err := signer.Sign("prog-1", domain.InvitationTypeCoPartner, testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = signer.Validate(token, "prog-other")
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeInvitationTokenInvalid {
		t.Fatalf("mismatch error = %v, want code %s", err, apperrors.CodeInvitationTokenInvalid)
	}
}

func TestTokenValidateRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, fixedClock)
	token, err := signer.Sign("prog-1", domain.InvitationTypeCoordinator, testNow.Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = signer.Validate(token, "prog-1")
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeInvitationTokenExpired {
		t.Fatalf("expired error = %v, want code %s", err, apperrors.CodeInvitationTokenExpired)
	}
}

func TestTokenValidateRejectsForeignSignature(t *testing.T) {
	t.Parallel()

	minting := newTestSigner(t, fixedClock)
	verifying := newTestSigner(t, fixedClock)
	token, err := minting.Sign("prog-1", domain.InvitationTypeCoPartner, testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = verifying.Validate(token, "prog-1")
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeInvitationTokenInvalid {
		t.Fatalf("foreign signature error = %v, want code %s", err, apperrors.CodeInvitationTokenInvalid)
	}
}

func TestTokenValidateRequiresToken(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, fixedClock)
	_, err := signer.Validate("  ", "prog-1")
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeInvitationTokenInvalid {
		t.Fatalf("empty token error = %v, want code %s", err, apperrors.CodeInvitationTokenInvalid)
	}
}
