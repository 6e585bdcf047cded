// AngelaMos | 2026
// permission.go

package permission

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math/bits"
	"strings"
)

// Permission is a single capability tag. Values are bit positions so that
// a Set can hold any combination without duplicates.
type Permission uint32

const (
	ManageClients Permission = 1 << iota
	ManageLeads
	ManageInquiries
	ManageSales
	ManageProjects
	ManageServices
	ViewAnalytics
	ViewOwnData
	ManageUsers
)

// All lists every permission in canonical order.
var All = []Permission{
	ManageClients,
	ManageLeads,
	ManageInquiries,
	ManageSales,
	ManageProjects,
	ManageServices,
	ViewAnalytics,
	ViewOwnData,
	ManageUsers,
}

var permissionNames = map[Permission]string{
	ManageClients:   "MANAGE_CLIENTS",
	ManageLeads:     "MANAGE_LEADS",
	ManageInquiries: "MANAGE_INQUIRIES",
	ManageSales:     "MANAGE_SALES",
	ManageProjects:  "MANAGE_PROJECTS",
	ManageServices:  "MANAGE_SERVICES",
	ViewAnalytics:   "VIEW_ANALYTICS",
	ViewOwnData:     "VIEW_OWN_DATA",
	ManageUsers:     "MANAGE_USERS",
}

func (p Permission) String() string {
	if name, ok := permissionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Permission(%d)", uint32(p))
}

// Parse converts a permission tag. Matching is exact; unknown tags are rejected.
func Parse(s string) (Permission, bool) {
	for p, name := range permissionNames {
		if name == s {
			return p, true
		}
	}
	return 0, false
}

// Set is an unordered, duplicate-free collection of permissions.
type Set uint32

func NewSet(perms ...Permission) Set {
	var s Set
	for _, p := range perms {
		s |= Set(p)
	}
	return s
}

// ParseSet parses a list of tags, reporting every unknown tag.
func ParseSet(values []string) (Set, error) {
	var s Set
	var unknown []string
	for _, v := range values {
		p, ok := Parse(v)
		if !ok {
			unknown = append(unknown, v)
			continue
		}
		s |= Set(p)
	}
	if len(unknown) > 0 {
		return 0, fmt.Errorf("unknown permissions: %s", strings.Join(unknown, ", "))
	}
	return s, nil
}

func (s Set) Has(p Permission) bool {
	return p != 0 && s&Set(p) == Set(p)
}

func (s Set) HasAny(perms ...Permission) bool {
	for _, p := range perms {
		if s.Has(p) {
			return true
		}
	}
	return false
}

func (s Set) HasAll(perms ...Permission) bool {
	for _, p := range perms {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

func (s Set) Union(other Set) Set {
	return s | other
}

func (s Set) Without(perms ...Permission) Set {
	return s &^ NewSet(perms...)
}

// Contains reports whether every member of other is also in s.
func (s Set) Contains(other Set) bool {
	return s&other == other
}

func (s Set) Len() int {
	return bits.OnesCount32(uint32(s))
}

func (s Set) IsEmpty() bool {
	return s == 0
}

// Slice returns the members in canonical order.
func (s Set) Slice() []Permission {
	out := make([]Permission, 0, s.Len())
	for _, p := range All {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s Set) Strings() []string {
	perms := s.Slice()
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, p.String())
	}
	return out
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("decode permissions: %w", err)
	}
	parsed, err := ParseSet(values)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value stores the set as a JSON array of tags.
func (s Set) Value() (driver.Value, error) {
	data, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan rejects any stored tag outside the closed enumeration.
func (s *Set) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = 0
		return nil
	case []byte:
		if len(v) == 0 {
			*s = 0
			return nil
		}
		return s.UnmarshalJSON(v)
	case string:
		if v == "" {
			*s = 0
			return nil
		}
		return s.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("scan permissions: unsupported type %T", src)
	}
}
