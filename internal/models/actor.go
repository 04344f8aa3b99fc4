package models

import "fmt"

// Actor is the authenticated caller, resolved once from token claims. The
// concrete type carries the profile id that role needs, so handlers and
// services switch on it instead of re-reading claims.
type Actor interface {
	UserID() string
	Role() UserRole
	DisplayName() string
	actor()
}

type actorBase struct {
	userID string
	name   string
}

func (a actorBase) UserID() string      { return a.userID }
func (a actorBase) DisplayName() string { return a.name }
func (actorBase) actor()                {}

// AdminActor is an administrator.
type AdminActor struct {
	actorBase
}

func (AdminActor) Role() UserRole { return RoleAdmin }

// MentorActor is a mentor acting on their own profile.
type MentorActor struct {
	actorBase
	MentorID string
}

func (MentorActor) Role() UserRole { return RoleMentor }

// StudentActor is a student acting on their own profile.
type StudentActor struct {
	actorBase
	StudentID string
}

func (StudentActor) Role() UserRole { return RoleStudent }

// ParentActor is a parent acting for linked students.
type ParentActor struct {
	actorBase
	ParentID string
}

func (ParentActor) Role() UserRole { return RoleParent }

func NewAdminActor(userID, name string) AdminActor {
	return AdminActor{actorBase{userID: userID, name: name}}
}

func NewMentorActor(userID, mentorID, name string) MentorActor {
	return MentorActor{actorBase: actorBase{userID: userID, name: name}, MentorID: mentorID}
}

func NewStudentActor(userID, studentID, name string) StudentActor {
	return StudentActor{actorBase: actorBase{userID: userID, name: name}, StudentID: studentID}
}

func NewParentActor(userID, parentID, name string) ParentActor {
	return ParentActor{actorBase: actorBase{userID: userID, name: name}, ParentID: parentID}
}

// ActorFromClaims decodes token claims into the matching actor variant.
// Non-admin claims without a profile id are rejected.
func ActorFromClaims(claims *JWTClaims) (Actor, error) {
	if claims == nil || claims.UserID == "" {
		return nil, fmt.Errorf("missing subject")
	}
	if claims.Role != RoleAdmin && claims.ProfileID == "" {
		return nil, fmt.Errorf("role %q requires a profile id", claims.Role)
	}
	switch claims.Role {
	case RoleAdmin:
		return NewAdminActor(claims.UserID, claims.Name), nil
	case RoleMentor:
		return NewMentorActor(claims.UserID, claims.ProfileID, claims.Name), nil
	case RoleStudent:
		return NewStudentActor(claims.UserID, claims.ProfileID, claims.Name), nil
	case RoleParent:
		return NewParentActor(claims.UserID, claims.ProfileID, claims.Name), nil
	default:
		return nil, fmt.Errorf("unknown role %q", claims.Role)
	}
}
