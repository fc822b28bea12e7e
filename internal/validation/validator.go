package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/countchain/engine/internal/errors"
	"github.com/countchain/engine/internal/model"
)

const (
	// Size limits
	MaxTenantIDSize      = 256
	MaxParticipantIDSize = 256
	MaxChannelIDSize     = 256
	MaxTextSize          = 2000 // chat message ceiling
)

// Validator validates engine operations before they reach shared state.
// Game-rule violations are never validation failures; only malformed
// identities and oversized payloads are rejected here.
type Validator struct {
	maxIDSize   int
	maxTextSize int
}

// NewValidator creates a new validator with default limits
func NewValidator() *Validator {
	return &Validator{
		maxIDSize:   MaxTenantIDSize,
		maxTextSize: MaxTextSize,
	}
}

// NewValidatorWithLimits creates a validator with custom limits
func NewValidatorWithLimits(maxIDSize, maxTextSize int) *Validator {
	return &Validator{
		maxIDSize:   maxIDSize,
		maxTextSize: maxTextSize,
	}
}

// ValidateSubmission validates an inbound submission event
func (v *Validator) ValidateSubmission(ev model.SubmissionEvent) error {
	if err := v.ValidateTenantID(ev.TenantID); err != nil {
		return err
	}
	if err := v.ValidateParticipantID(ev.ParticipantID); err != nil {
		return err
	}
	if err := v.ValidateChannelID(ev.OriginChannelID); err != nil {
		return err
	}
	if len(ev.RawText) > v.maxTextSize {
		return errors.TextTooLarge(len(ev.RawText), v.maxTextSize)
	}
	return nil
}

// ValidateConfigRequest validates an admin reconfiguration request
func (v *Validator) ValidateConfigRequest(req model.ChannelConfigRequest) error {
	if err := v.ValidateTenantID(req.TenantID); err != nil {
		return err
	}
	if err := v.ValidateParticipantID(req.RequestingParticipantID); err != nil {
		return err
	}
	return v.ValidateChannelID(req.TargetChannelID)
}

// ValidateTenantID validates a tenant ID
func (v *Validator) ValidateTenantID(id model.TenantID) error {
	if reason := v.checkID(string(id)); reason != "" {
		return errors.InvalidTenantID(string(id), reason)
	}
	return nil
}

// ValidateParticipantID validates a participant ID
func (v *Validator) ValidateParticipantID(id model.ParticipantID) error {
	if reason := v.checkID(string(id)); reason != "" {
		return errors.InvalidParticipantID(string(id), reason)
	}
	return nil
}

// ValidateChannelID validates a channel ID
func (v *Validator) ValidateChannelID(id model.ChannelID) error {
	if reason := v.checkID(string(id)); reason != "" {
		return errors.InvalidChannelID(string(id), reason)
	}
	return nil
}

// checkID returns a non-empty reason when the identifier is unusable
func (v *Validator) checkID(id string) string {
	if id == "" {
		return "identifier cannot be empty"
	}
	if len(id) > v.maxIDSize {
		return fmt.Sprintf("identifier exceeds maximum size of %d bytes", v.maxIDSize)
	}
	if strings.Contains(id, "\x00") {
		return "identifier cannot contain null bytes"
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return "identifier cannot contain control characters"
		}
	}
	return ""
}
