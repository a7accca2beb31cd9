package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Valid(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want bool
	}{
		{"student", RoleStudent, true},
		{"teacher", RoleTeacher, true},
		{"tp officer", RoleTPOfficer, true},
		{"admin", RoleAdmin, true},
		{"empty", Role(""), false},
		{"unknown", Role("superuser"), false},
		{"case sensitive", Role("Admin"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Valid())
		})
	}
}

func TestRole_DashboardPath(t *testing.T) {
	assert.Equal(t, "/dashboard/student", RoleStudent.DashboardPath())
	assert.Equal(t, "/dashboard/teacher", RoleTeacher.DashboardPath())
	assert.Equal(t, "/dashboard/tp-officer", RoleTPOfficer.DashboardPath())
	assert.Equal(t, "/dashboard/admin", RoleAdmin.DashboardPath())
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("tp-officer")
	assert.True(t, ok)
	assert.Equal(t, RoleTPOfficer, role)

	_, ok = ParseRole("visitor")
	assert.False(t, ok)
}

func TestAppUser_CanAccess(t *testing.T) {
	student := &AppUser{ID: "u1", Role: RoleStudent}

	// Empty set means any authenticated role.
	assert.True(t, student.CanAccess(nil))
	assert.True(t, student.CanAccess([]Role{}))

	assert.True(t, student.CanAccess([]Role{RoleStudent, RoleTeacher}))
	assert.False(t, student.CanAccess([]Role{RoleTeacher}))
	assert.False(t, student.CanAccess([]Role{RoleAdmin, RoleTPOfficer}))
}
