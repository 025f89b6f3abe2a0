// Package domain defines the core entities of the partnership platform.
//
// The model is centered around a few key concepts:
//
// # Partner
//
// A Partner is an organization (school network, NGO, foundation) that hosts
// or joins programs. The hosting partner owns the program; other partners
// participate through a PartnerLink granted via invitation.
//
// # Program
//
// A Program is a partner-hosted initiative scoping institutions,
// coordinators, and projects. Everything else hangs off a program id.
//
// # Institutions and Teachers
//
// Institutions are the schools onboarded into a program; teachers belong to
// an institution and create projects.
//
// # Coordinators
//
// Coordinators are country/region-scoped individuals responsible for
// onboarding institutions. They enter the system through an invitation and
// become active on acceptance.
//
// # Invitations
//
// Invitations drive the co-partner and coordinator lifecycles. Both kinds
// share one record type with a tagged metadata union keyed by the invitation
// type. Status is monotonic: pending transitions to accepted or declined and
// never reverses. Expiry is descriptive metadata only.
package domain
