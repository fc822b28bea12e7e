package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/countchain/engine/internal/errors"
	"github.com/countchain/engine/internal/model"
)

func TestValidateSubmission_Valid(t *testing.T) {
	v := NewValidator()

	err := v.ValidateSubmission(model.SubmissionEvent{
		TenantID:        "guild-1",
		ParticipantID:   "alice",
		OriginChannelID: "count",
		RawText:         "42",
	})
	assert.NoError(t, err)
}

func TestValidateSubmission_NonNumericTextIsValid(t *testing.T) {
	// Non-numeric text is a game outcome, not a validation failure.
	v := NewValidator()

	err := v.ValidateSubmission(model.SubmissionEvent{
		TenantID:        "guild-1",
		ParticipantID:   "alice",
		OriginChannelID: "count",
		RawText:         "hello there",
	})
	assert.NoError(t, err)
}

func TestValidateSubmission_Errors(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		ev   model.SubmissionEvent
		code errors.ErrorCode
	}{
		{
			"empty tenant id",
			model.SubmissionEvent{TenantID: "", ParticipantID: "alice", OriginChannelID: "count"},
			errors.ErrCodeInvalidTenantID,
		},
		{
			"oversized tenant id",
			model.SubmissionEvent{TenantID: model.TenantID(strings.Repeat("x", 257)), ParticipantID: "alice", OriginChannelID: "count"},
			errors.ErrCodeInvalidTenantID,
		},
		{
			"empty participant id",
			model.SubmissionEvent{TenantID: "guild-1", ParticipantID: "", OriginChannelID: "count"},
			errors.ErrCodeInvalidParticipantID,
		},
		{
			"empty channel id",
			model.SubmissionEvent{TenantID: "guild-1", ParticipantID: "alice", OriginChannelID: ""},
			errors.ErrCodeInvalidChannelID,
		},
		{
			"null byte in participant id",
			model.SubmissionEvent{TenantID: "guild-1", ParticipantID: "ali\x00ce", OriginChannelID: "count"},
			errors.ErrCodeInvalidParticipantID,
		},
		{
			"control character in channel id",
			model.SubmissionEvent{TenantID: "guild-1", ParticipantID: "alice", OriginChannelID: "cou\nnt"},
			errors.ErrCodeInvalidChannelID,
		},
		{
			"oversized text",
			model.SubmissionEvent{TenantID: "guild-1", ParticipantID: "alice", OriginChannelID: "count", RawText: strings.Repeat("9", MaxTextSize+1)},
			errors.ErrCodeTextTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateSubmission(tt.ev)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestValidateSubmission_TextAtLimit(t *testing.T) {
	v := NewValidator()

	err := v.ValidateSubmission(model.SubmissionEvent{
		TenantID:        "guild-1",
		ParticipantID:   "alice",
		OriginChannelID: "count",
		RawText:         strings.Repeat("9", MaxTextSize),
	})
	assert.NoError(t, err)
}

func TestValidateConfigRequest(t *testing.T) {
	v := NewValidator()

	err := v.ValidateConfigRequest(model.ChannelConfigRequest{
		TenantID:                "guild-1",
		RequestingParticipantID: "admin",
		TargetChannelID:         "count",
	})
	assert.NoError(t, err)

	err = v.ValidateConfigRequest(model.ChannelConfigRequest{
		TenantID:                "guild-1",
		RequestingParticipantID: "admin",
		TargetChannelID:         "",
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidChannelID, errors.GetCode(err))
}

func TestValidatorWithLimits(t *testing.T) {
	v := NewValidatorWithLimits(8, 16)

	assert.NoError(t, v.ValidateTenantID("short"))

	err := v.ValidateTenantID("definitely-too-long")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidTenantID, errors.GetCode(err))

	err = v.ValidateSubmission(model.SubmissionEvent{
		TenantID:        "guild",
		ParticipantID:   "alice",
		OriginChannelID: "count",
		RawText:         strings.Repeat("9", 17),
	})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTextTooLarge, errors.GetCode(err))
}
