package rank

import (
	"testing"

	"github.com/lilykang127/connect-ltv/internal/domain/profile"
)

func TestDefault_Valid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		w       Weights
		wantErr bool
	}{
		{"scaled default", Weights{
			profile.FullName: 100, profile.Position: 70, profile.Organization: 60,
			profile.Function: 50, profile.Stage: 40, profile.Comments: 30, profile.Location: 1,
		}, false},
		{"negative", Default().Merge(map[profile.Field]int{profile.Location: -1}), true},
		{"location above stage", Default().Merge(map[profile.Field]int{profile.Location: 5}), true},
		{"position equals name", Default().Merge(map[profile.Field]int{profile.Position: 10}), true},
		{"comments above organization", Default().Merge(map[profile.Field]int{profile.Comments: 8}), true},
		{"unknown field", Default().Merge(map[profile.Field]int{"email": 1}), true},
		{"location zero", Default().Merge(map[profile.Field]int{profile.Location: 0}), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.w.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestMerge_DoesNotMutate(t *testing.T) {
	base := Default()
	merged := base.Merge(map[profile.Field]int{profile.Location: 1})
	if base[profile.Location] != 3 {
		t.Errorf("base mutated: %d", base[profile.Location])
	}
	if merged[profile.Location] != 1 {
		t.Errorf("merged location = %d", merged[profile.Location])
	}
}
