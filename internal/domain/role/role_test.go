package role

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Role
		wantOK bool
	}{
		{name: "canonical", input: "HOD", want: RoleHOD, wantOK: true},
		{name: "lowercase", input: "dean", want: RoleDean, wantOK: true},
		{name: "mixed case", input: "lEcTuReR", want: RoleLecturer, wantOK: true},
		{name: "surrounding whitespace", input: "  VC  ", want: RoleVC, wantOK: true},
		{name: "student", input: "student", want: RoleStudent, wantOK: true},
		{name: "admin", input: "Admin", want: RoleAdmin, wantOK: true},
		{name: "unknown", input: "Registrar", want: Role("Registrar"), wantOK: false},
		{name: "empty", input: "", want: Role(""), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Parse(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		role Role
		want int
	}{
		{RoleStudent, 0},
		{RoleStaff, 1},
		{RoleLecturer, 2},
		{RoleHOD, 3},
		{RoleDean, 4},
		{RoleVC, 5},
		{RoleAdmin, 0},
		{Role("hod"), 3}, // non-canonical casing from stored rows
		{Role("nobody"), 0},
	}

	for _, tt := range tests {
		if got := tt.role.Rank(); got != tt.want {
			t.Errorf("Rank(%v) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestOutranks(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Role
		wants bool
	}{
		{name: "dean over hod", a: RoleDean, b: RoleHOD, wants: true},
		{name: "hod not over dean", a: RoleHOD, b: RoleDean, wants: false},
		{name: "same rank", a: RoleLecturer, b: RoleLecturer, wants: false},
		{name: "staff over student", a: RoleStaff, b: RoleStudent, wants: true},
		{name: "admin holds no rank", a: RoleAdmin, b: RoleStudent, wants: false},
		{name: "student outranks nothing", a: RoleStudent, b: RoleStudent, wants: false},
		{name: "vc over everyone ranked", a: RoleVC, b: RoleDean, wants: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Outranks(tt.b); got != tt.wants {
				t.Errorf("%v.Outranks(%v) = %v, want %v", tt.a, tt.b, got, tt.wants)
			}
		})
	}
}

func TestEquals(t *testing.T) {
	if !RoleHOD.Equals(Role("hod")) {
		t.Errorf("Equals() should ignore case")
	}
	if RoleHOD.Equals(RoleDean) {
		t.Errorf("Equals() matched different roles")
	}
	if !Role("ADMIN").IsAdmin() {
		t.Errorf("IsAdmin() should ignore case")
	}
}
