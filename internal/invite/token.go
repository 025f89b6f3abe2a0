package invite

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	"github.com/darajahq/daraja/internal/domain"
	apperrors "github.com/darajahq/daraja/internal/errors"
)

// signerEnv holds raw env values before post-parse validation.
type signerEnv struct {
	Issuer     string `env:"DARAJA_INVITE_TOKEN_ISSUER"`
	Audience   string `env:"DARAJA_INVITE_TOKEN_AUDIENCE"`
	PrivateKey string `env:"DARAJA_INVITE_TOKEN_PRIVATE_KEY"`
}

// TokenClaims captures the validated claims of an invitation token.
type TokenClaims struct {
	Issuer         string
	ExpiresAt      time.Time
	IssuedAt       time.Time
	JWTID          string
	ProgramID      string
	InvitationType domain.InvitationType
}

// tokenClaims is the internal claims type used for JWT signing and parsing.
type tokenClaims struct {
	jwt.RegisteredClaims
	ProgramID      string `json:"program_id"`
	InvitationType string `json:"invitation_type"`
}

// Signer mints and verifies ed25519-signed invitation tokens.
type Signer struct {
	issuer   string
	audience string
	private  ed25519.PrivateKey
	public   ed25519.PublicKey
	now      func() time.Time
}

// NewSigner builds a signer from an ed25519 private key.
func NewSigner(issuer, audience string, key ed25519.PrivateKey, now func() time.Time) (*Signer, error) {
	issuer = strings.TrimSpace(issuer)
	audience = strings.TrimSpace(audience)
	if issuer == "" {
		return nil, fmt.Errorf("token issuer is required")
	}
	if audience == "" {
		return nil, fmt.Errorf("token audience is required")
	}
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("token private key must be %d bytes", ed25519.PrivateKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return &Signer{
		issuer:   issuer,
		audience: audience,
		private:  key,
		public:   key.Public().(ed25519.PublicKey),
		now:      now,
	}, nil
}

// NewEphemeralSigner generates a throwaway keypair. Used by seeding and
// tests; production keys come from the environment.
func NewEphemeralSigner(issuer, audience string, now func() time.Time) (*Signer, error) {
	_, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate token keypair: %w", err)
	}
	return NewSigner(issuer, audience, private, now)
}

// LoadSignerFromEnv reads signer configuration from the environment. The
// private key is base64-encoded ed25519 seed-plus-public bytes.
func LoadSignerFromEnv(now func() time.Time) (*Signer, error) {
	var raw signerEnv
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("parse token signer env: %w", err)
	}
	key := strings.TrimSpace(raw.PrivateKey)
	if key == "" {
		return nil, fmt.Errorf("DARAJA_INVITE_TOKEN_PRIVATE_KEY is required")
	}
	keyBytes, err := decodeBase64(key)
	if err != nil {
		return nil, fmt.Errorf("decode token private key: %w", err)
	}
	return NewSigner(raw.Issuer, raw.Audience, ed25519.PrivateKey(keyBytes), now)
}

// Sign mints a token binding a program and invitation type until expiresAt.
func (s *Signer) Sign(programID string, invitationType domain.InvitationType, expiresAt time.Time) (string, error) {
	if s == nil || len(s.private) != ed25519.PrivateKeySize {
		return "", apperrors.New(apperrors.CodeInvitationSignerUnavailable, "token signer is not configured")
	}
	programID = strings.TrimSpace(programID)
	if programID == "" {
		return "", fmt.Errorf("program id is required")
	}

	jti, err := domain.NewID()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}

	issuedAt := s.now().UTC()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt.UTC()),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ID:        jti,
		},
		ProgramID:      programID,
		InvitationType: domain.InvitationTypeLabel(invitationType),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(s.private)
	if err != nil {
		return "", fmt.Errorf("sign invitation token: %w", err)
	}
	return signed, nil
}

// Validate verifies a token's signature and claims against the expected
// program.
func (s *Signer) Validate(token, expectedProgramID string) (TokenClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return TokenClaims{}, apperrors.New(apperrors.CodeInvitationTokenInvalid, "invitation token is required")
	}
	if s == nil || len(s.public) != ed25519.PublicKeySize {
		return TokenClaims{}, apperrors.New(apperrors.CodeInvitationSignerUnavailable, "token signer is not configured")
	}

	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(token *jwt.Token) (any, error) {
		return s.public, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return TokenClaims{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != s.issuer {
		return TokenClaims{}, apperrors.New(apperrors.CodeInvitationTokenInvalid, "invitation token issuer mismatch")
	}
	if !audienceContains(parsed.Audience, s.audience) {
		return TokenClaims{}, apperrors.New(apperrors.CodeInvitationTokenInvalid, "invitation token audience mismatch")
	}
	if parsed.ID == "" {
		return TokenClaims{}, apperrors.New(apperrors.CodeInvitationTokenInvalid, "invitation token jti is required")
	}
	if parsed.ExpiresAt == nil {
		return TokenClaims{}, apperrors.New(apperrors.CodeInvitationTokenInvalid, "invitation token exp is required")
	}

	now := s.now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return TokenClaims{}, apperrors.New(apperrors.CodeInvitationTokenExpired, "invitation token is expired")
	}

	if strings.TrimSpace(parsed.ProgramID) == "" || parsed.ProgramID != expectedProgramID {
		return TokenClaims{}, apperrors.New(apperrors.CodeInvitationTokenInvalid, "invitation token program mismatch")
	}
	invitationType := domain.InvitationTypeFromLabel(parsed.InvitationType)
	if invitationType == domain.InvitationTypeUnspecified {
		return TokenClaims{}, apperrors.New(apperrors.CodeInvitationTokenInvalid, "invitation token type is invalid")
	}

	claims := TokenClaims{
		Issuer:         parsed.Issuer,
		ExpiresAt:      exp,
		JWTID:          parsed.ID,
		ProgramID:      parsed.ProgramID,
		InvitationType: invitationType,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeInvitationTokenInvalid, "invitation token signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeInvitationTokenInvalid, "invitation token alg is invalid")
	}
	return apperrors.New(apperrors.CodeInvitationTokenInvalid, "invitation token is invalid")
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
