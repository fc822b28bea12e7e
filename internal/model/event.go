package model

// SubmissionEvent is one inbound counting attempt delivered by the
// chat gateway.
type SubmissionEvent struct {
	TenantID        TenantID
	ParticipantID   ParticipantID
	OriginChannelID ChannelID
	RawText         string
	AutomatedSender bool
}

// ChannelConfigRequest asks the engine to designate a tenant's counting
// channel. Only administrators may reconfigure.
type ChannelConfigRequest struct {
	TenantID                 TenantID
	RequestingParticipantID  ParticipantID
	TargetChannelID          ChannelID
	RequesterIsAdministrator bool
}

// Outcome is the result of a processed submission, returned to the
// caller after all locks are released. It snapshots the post-event
// state the notifier needs to render a reaction or message.
type Outcome struct {
	Verdict       Verdict
	TenantID      TenantID
	ParticipantID ParticipantID
	ChannelID     ChannelID
	RunningCount  uint64
	TenantTally   Statistics
}
