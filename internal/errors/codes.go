package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Partner errors
	CodePartnerNameEmpty Code = "PARTNER_NAME_EMPTY"

	// Program errors
	CodeProgramNameEmpty      Code = "PROGRAM_NAME_EMPTY"
	CodeProgramEmptyPartnerID Code = "PROGRAM_EMPTY_PARTNER_ID"
	CodeProgramInvalidStatus  Code = "PROGRAM_INVALID_STATUS"

	// Institution errors
	CodeInstitutionNameEmpty      Code = "INSTITUTION_NAME_EMPTY"
	CodeInstitutionEmptyProgramID Code = "INSTITUTION_EMPTY_PROGRAM_ID"
	CodeInstitutionNegativeCount  Code = "INSTITUTION_NEGATIVE_COUNT"

	// Teacher errors
	CodeTeacherNameEmpty          Code = "TEACHER_NAME_EMPTY"
	CodeTeacherEmptyInstitutionID Code = "TEACHER_EMPTY_INSTITUTION_ID"
	CodeTeacherEmptyProgramID     Code = "TEACHER_EMPTY_PROGRAM_ID"

	// Coordinator errors
	CodeCoordinatorNameEmpty      Code = "COORDINATOR_NAME_EMPTY"
	CodeCoordinatorEmailEmpty     Code = "COORDINATOR_EMAIL_EMPTY"
	CodeCoordinatorEmptyProgramID Code = "COORDINATOR_EMPTY_PROGRAM_ID"

	// Partner link errors
	CodeLinkEmptyProgramID Code = "LINK_EMPTY_PROGRAM_ID"
	CodeLinkEmptyPartnerID Code = "LINK_EMPTY_PARTNER_ID"
	CodeLinkInvalidRole    Code = "LINK_INVALID_ROLE"

	// Invitation errors
	CodeInvitationEmptyProgramID    Code = "INVITATION_EMPTY_PROGRAM_ID"
	CodeInvitationEmptyRecipient    Code = "INVITATION_EMPTY_RECIPIENT"
	CodeInvitationInvalidType       Code = "INVITATION_INVALID_TYPE"
	CodeInvitationMetadataMissing   Code = "INVITATION_METADATA_MISSING"
	CodeInvitationAlreadyResponded  Code = "INVITATION_ALREADY_RESPONDED"
	CodeInvitationTokenInvalid      Code = "INVITATION_TOKEN_INVALID"
	CodeInvitationTokenExpired      Code = "INVITATION_TOKEN_EXPIRED"
	CodeInvitationSignerUnavailable Code = "INVITATION_SIGNER_UNAVAILABLE"

	// Project errors
	CodeProjectEmptyProgramID Code = "PROJECT_EMPTY_PROGRAM_ID"
	CodeProjectEmptyCreatorID Code = "PROJECT_EMPTY_CREATOR_ID"

	// Session errors
	CodeSessionMissing Code = "SESSION_MISSING"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)
