package docker

import (
	"testing"

	"github.com/seqpack/seqpack/internal/config"
)

func testVerifier() *Verifier {
	cfg := config.DefaultConfig()
	cfg.Project = "demo"
	return &Verifier{config: cfg}
}

func TestCheckUser(t *testing.T) {
	v := testVerifier()

	tests := []struct {
		name string
		user string
		want bool
	}{
		{"numeric identity", "1001:1001", true},
		{"numeric uid only", "1001", true},
		{"named user", "seq2seq", true},
		{"empty runs as root", "", false},
		{"explicit root", "root", false},
		{"uid zero", "0", false},
		{"uid zero with gid", "0:0", false},
		{"foreign identity", "2000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := v.checkUser(tt.user)
			if check.OK != tt.want {
				t.Errorf("checkUser(%q).OK = %v, want %v (%s)", tt.user, check.OK, tt.want, check.Detail)
			}
		})
	}
}

func TestCheckWorkdir(t *testing.T) {
	v := testVerifier()

	if check := v.checkWorkdir("/home/seq2seq/app"); !check.OK {
		t.Errorf("matching workdir should pass: %s", check.Detail)
	}
	if check := v.checkWorkdir("/"); check.OK {
		t.Error("mismatched workdir should fail")
	}
}

func TestCheckPathEnv(t *testing.T) {
	v := testVerifier()

	env := []string{
		"PATH=/usr/local/bin:/usr/bin",
		"PYTHONPATH=/home/seq2seq/app/src",
	}
	if check := v.checkPathEnv(env); !check.OK {
		t.Errorf("matching PYTHONPATH should pass: %s", check.Detail)
	}

	if check := v.checkPathEnv([]string{"PATH=/usr/bin"}); check.OK {
		t.Error("missing PYTHONPATH should fail")
	}

	if check := v.checkPathEnv([]string{"PYTHONPATH=/opt/other"}); check.OK {
		t.Error("wrong PYTHONPATH should fail")
	}
}

func TestVerifyResult_Passed(t *testing.T) {
	result := &VerifyResult{Checks: []Check{
		{Name: "a", OK: true},
		{Name: "b", Skipped: true},
	}}
	if !result.Passed() {
		t.Error("skipped checks should not fail the result")
	}

	result.Checks = append(result.Checks, Check{Name: "c", OK: false})
	if result.Passed() {
		t.Error("a failed check should fail the result")
	}
}
