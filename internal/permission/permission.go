// Package permission defines the capability bits granted to roles.
package permission

import (
	"fmt"
	"sort"
	"strings"
)

// Mask is a set of capabilities. Each capability owns exactly one bit.
type Mask uint32

// Capability bit values are persisted inside role rows and must never be
// renumbered. New capabilities are appended at the end.
const (
	CreateComments Mask = 1 << iota
	CreateChats
	UpgradeUserRole
	CreatePosts
	BanUsers
	ModerateContent
	ManageRoles

	capabilityEnd
)

// capabilityCount is the number of defined capabilities.
const capabilityCount = 7

// Fails to compile if the capability list and capabilityCount drift apart,
// or if the capabilities no longer fit in a Mask.
var (
	_ = [1]struct{}{}[capabilityEnd>>capabilityCount-1]
	_ = Mask(1 << (capabilityCount - 1))
)

// None is the empty mask. A guard requiring None only authenticates.
const None Mask = 0

// All holds every defined capability.
const All = capabilityEnd - 1

var names = map[Mask]string{
	CreateComments:  "create_comments",
	CreateChats:     "create_chats",
	UpgradeUserRole: "upgrade_user_role",
	CreatePosts:     "create_posts",
	BanUsers:        "ban_users",
	ModerateContent: "moderate_content",
	ManageRoles:     "manage_roles",
}

// Has reports whether effective holds every bit of required.
// A zero required mask is satisfied by any effective mask.
func Has(effective, required Mask) bool {
	return effective&required == required
}

// Has reports whether m holds every bit of required.
func (m Mask) Has(required Mask) bool {
	return Has(m, required)
}

// Grant returns m with the given capabilities added.
func (m Mask) Grant(c Mask) Mask {
	return m | c
}

// Revoke returns m with the given capabilities removed.
func (m Mask) Revoke(c Mask) Mask {
	return m &^ c
}

// Valid reports whether m only uses defined capability bits.
func (m Mask) Valid() bool {
	return m&^All == 0
}

// Names returns the sorted capability names set in m. Undefined bits are skipped.
func (m Mask) Names() []string {
	out := make([]string, 0, capabilityCount)
	for bit := Mask(1); bit < capabilityEnd; bit <<= 1 {
		if m&bit != 0 {
			out = append(out, names[bit])
		}
	}
	sort.Strings(out)
	return out
}

func (m Mask) String() string {
	if m == None {
		return "none"
	}
	return strings.Join(m.Names(), "|")
}

// Parse builds a mask from capability names. Unknown names are an error.
func Parse(capabilities []string) (Mask, error) {
	var m Mask
	for _, raw := range capabilities {
		name := strings.ToLower(strings.TrimSpace(raw))
		bit, ok := lookup(name)
		if !ok {
			return None, fmt.Errorf("unknown capability %q", raw)
		}
		m |= bit
	}
	return m, nil
}

func lookup(name string) (Mask, bool) {
	for bit, n := range names {
		if n == name {
			return bit, true
		}
	}
	return None, false
}

// Default role names and masks ensured at migration time.
const (
	RoleUser      = "User"
	RoleVolunteer = "Volunteer"
	RoleModerator = "Moderator"
	RoleAdmin     = "Admin"
)

// DefaultRoles maps each built-in role to its capabilities.
var DefaultRoles = map[string]Mask{
	RoleUser:      CreateComments | CreateChats,
	RoleVolunteer: CreateComments | CreateChats | UpgradeUserRole | CreatePosts,
	RoleModerator: CreateComments | CreateChats | UpgradeUserRole | CreatePosts | BanUsers | ModerateContent,
	RoleAdmin:     All,
}
