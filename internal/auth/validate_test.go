package auth

import "testing"

func TestStrongPassword(t *testing.T) {
	cases := []struct {
		name string
		pw   string
		want bool
	}{
		{"all classes", "Secur3!pass", true},
		{"too short", "S3!a", false},
		{"no uppercase", "secur3!pass", false},
		{"no lowercase", "SECUR3!PASS", false},
		{"no digit", "Secure!pass", false},
		{"no symbol", "Secur3pass", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := strongPassword(tc.pw); got != tc.want {
				t.Errorf("strongPassword(%q) = %v, want %v", tc.pw, got, tc.want)
			}
		})
	}
}

func TestPhonePattern(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{"+84912345678", true},
		{"0912345678", true},
		{"0312345678", true},
		{"+84123456789", false}, // carrier digit 1 not valid
		{"091234567", false},    // too short
		{"09123456789", false},  // too long
		{"12345", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := phonePattern.MatchString(tc.phone); got != tc.want {
			t.Errorf("phonePattern(%q) = %v, want %v", tc.phone, got, tc.want)
		}
	}
}

func TestCheckStructSignup(t *testing.T) {
	err := checkStruct(signupInput{
		FullName: "",
		Email:    "not-an-email",
		Phone:    "12345",
		Password: "weak",
	})
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("checkStruct() error = %T, want *ValidationError", err)
	}
	for _, field := range []string{"fullName", "email", "phone", "password"} {
		if verr.Fields[field] == "" {
			t.Errorf("missing message for field %q: %v", field, verr.Fields)
		}
	}
}

func TestCheckStructSignupValid(t *testing.T) {
	err := checkStruct(signupInput{
		FullName: "Jane Doe",
		Email:    "jane@x.com",
		Phone:    "+84912345678",
		Password: "Secur3!pass",
	})
	if err != nil {
		t.Fatalf("checkStruct() error = %v, want nil", err)
	}
}

func TestCheckStructProfilePartial(t *testing.T) {
	// Nil fields are skipped entirely.
	if err := checkStruct(profileInput{}); err != nil {
		t.Fatalf("checkStruct(empty) error = %v", err)
	}
	bad := "nope"
	err := checkStruct(profileInput{Email: &bad})
	verr, ok := err.(*ValidationError)
	if !ok || verr.Fields["email"] == "" {
		t.Fatalf("checkStruct(bad email) = %v, want email validation error", err)
	}
}
