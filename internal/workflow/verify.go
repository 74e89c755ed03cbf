package workflow

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"

	"uvote-cli/internal/api"
	apperrors "uvote-cli/pkg/errors"
	"uvote-cli/pkg/logger"
)

// CodeLength is the number of digits in a verification code
const CodeLength = 6

// ResendCooldownSeconds is how long the resend action stays disabled
// after a code is sent
const ResendCooldownSeconds = 60

// Challenge is one email-verification attempt: a 6-digit code entry plus
// an independent resend action with its cooldown. It is created when a
// registration completes or a not-verified login is detected, and torn
// down with Close once verification succeeds or the user walks away.
type Challenge struct {
	client *api.Client
	log    *logger.Logger
	email  string

	mu        sync.Mutex
	digits    [CodeLength]byte
	filled    int
	cooldown  int
	verifying bool
	verified  bool

	stopTicker chan struct{}
	tickerOnce sync.Once
}

// NewChallenge starts a challenge for the given email, with the resend
// cooldown already running as if a code was just sent
func NewChallenge(client *api.Client, log *logger.Logger, email string) *Challenge {
	return &Challenge{
		client:     client,
		log:        log,
		email:      NormalizeEmail(email),
		cooldown:   ResendCooldownSeconds,
		stopTicker: make(chan struct{}),
	}
}

// Email returns the address under verification
func (c *Challenge) Email() string {
	return c.email
}

// SeedFromStatus asks the backend whether this email still needs
// verification and aligns the resend cooldown with the server's count.
// It returns the advertised next step (VERIFY or LOGIN).
func (c *Challenge) SeedFromStatus(ctx context.Context) (string, error) {
	status, err := c.client.AuthStatus(ctx, c.email)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	if status.NextStep == api.NextStepVerify {
		c.cooldown = status.ResendAvailableIn
	} else {
		c.cooldown = 0
	}
	c.mu.Unlock()

	return status.NextStep, nil
}

// SetCode fills the six slots from raw input. Non-digit characters are
// dropped and anything past six digits is ignored, matching the paste
// behavior of the code boxes.
func (c *Challenge) SetCode(raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.digits = [CodeLength]byte{}
	c.filled = 0
	for _, r := range raw {
		if !unicode.IsDigit(r) {
			continue
		}
		if c.filled == CodeLength {
			break
		}
		c.digits[c.filled] = byte(r)
		c.filled++
	}
}

// Code returns the digits entered so far
func (c *Challenge) Code() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var b strings.Builder
	for i := 0; i < c.filled; i++ {
		b.WriteByte(c.digits[i])
	}
	return b.String()
}

// CodeComplete reports whether all six digits are present
func (c *Challenge) CodeComplete() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filled == CodeLength
}

// ResetCode clears the entered digits
func (c *Challenge) ResetCode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.digits = [CodeLength]byte{}
	c.filled = 0
}

// Cooldown returns the seconds left before resend is allowed again
func (c *Challenge) Cooldown() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cooldown
}

// CanResend reports whether the resend action is currently enabled
func (c *Challenge) CanResend() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cooldown == 0 && !c.verifying && !c.verified
}

// Verified reports whether the code was accepted
func (c *Challenge) Verified() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verified
}

// Verify submits the entered code. An incomplete code is rejected
// locally before any network call. Success does not authenticate;
// the caller transitions to the login flow.
func (c *Challenge) Verify(ctx context.Context) error {
	if err := validateEmail(c.email); err != nil {
		return err
	}

	c.mu.Lock()
	if c.verified {
		c.mu.Unlock()
		return nil
	}
	if c.verifying {
		c.mu.Unlock()
		return apperrors.NewValidationError("Ya hay una verificación en curso.")
	}
	if c.filled != CodeLength {
		c.mu.Unlock()
		return apperrors.NewValidationError("Ingresa el código de 6 dígitos.")
	}
	code := string(c.digits[:])
	c.verifying = true
	c.mu.Unlock()

	err := c.client.VerifyCode(ctx, c.email, code)

	c.mu.Lock()
	c.verifying = false
	if err == nil {
		c.verified = true
		c.digits = [CodeLength]byte{}
		c.filled = 0
	}
	c.mu.Unlock()

	if err != nil {
		c.log.WithError(err).Debug("Verification rejected")
		return err
	}

	c.log.WithField("correo", c.email).Info("Email verified")
	return nil
}

// Resend asks for a fresh code. It refuses while the cooldown runs or a
// verify is in flight; success restarts the cooldown at 60 and clears
// the entered digits.
func (c *Challenge) Resend(ctx context.Context) error {
	if err := validateEmail(c.email); err != nil {
		return err
	}

	c.mu.Lock()
	if c.verified {
		c.mu.Unlock()
		return apperrors.NewValidationError("El correo ya fue verificado.")
	}
	if c.verifying {
		c.mu.Unlock()
		return apperrors.NewValidationError("Espera a que termine la verificación en curso.")
	}
	if c.cooldown > 0 {
		c.mu.Unlock()
		return apperrors.NewValidationError("Espera a que finalice el contador para reenviar.")
	}
	c.mu.Unlock()

	if err := c.client.ResendCode(ctx, c.email); err != nil {
		return err
	}

	c.mu.Lock()
	c.cooldown = ResendCooldownSeconds
	c.digits = [CodeLength]byte{}
	c.filled = 0
	c.mu.Unlock()

	return nil
}

// StartCooldownTicker decrements the cooldown once per second until
// Close is called. One ticker per challenge; it never leaks past Close.
func (c *Challenge) StartCooldownTicker() {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Tick()
			case <-c.stopTicker:
				return
			}
		}
	}()
}

// Tick advances the cooldown by one second
func (c *Challenge) Tick() {
	c.mu.Lock()
	if c.cooldown > 0 {
		c.cooldown--
	}
	c.mu.Unlock()
}

// Close tears the challenge down, cancelling the cooldown ticker
func (c *Challenge) Close() {
	c.tickerOnce.Do(func() {
		close(c.stopTicker)
	})
}
