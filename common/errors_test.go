package common

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestAssetErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *AssetError
		want string
	}{
		{
			name: "full",
			err:  &AssetError{Kind: KindShaderCompile, Source: "pick.vs.glsl", Log: "0:4: syntax error", Err: fs.ErrNotExist},
			want: "shader compile pick.vs.glsl: 0:4: syntax error: file does not exist",
		},
		{
			name: "kind only",
			err:  &AssetError{Kind: KindImageDepth},
			want: "image depth",
		},
		{
			name: "unknown kind",
			err:  &AssetError{Kind: AssetErrorKind(42), Log: "?"},
			want: "asset kind 42: ?",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssetErrorMatching(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := fmt.Errorf("loader: failed to load ship.obj: %w", &AssetError{Kind: KindModelParse, Source: "ship.obj", Err: cause})

	if !errors.Is(err, ErrAsset) {
		t.Error("errors.Is(err, ErrAsset) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	if kind, ok := AssetKind(err); !ok || kind != KindModelParse {
		t.Errorf("AssetKind() = %v, %v, want model parse", kind, ok)
	}

	if _, ok := AssetKind(cause); ok {
		t.Error("AssetKind() matched a plain error")
	}
	if errors.Is(cause, ErrAsset) {
		t.Error("plain error matched ErrAsset")
	}
}
