package mapping

import (
	"context"
	"fmt"
)

// CodeExistsFunc reports whether a code is already used locally
type CodeExistsFunc func(ctx context.Context, code string) (bool, error)

// UniqueCode returns candidate when it is free or when keep is set,
// otherwise the first free code among candidate_1, candidate_2, ...
func UniqueCode(ctx context.Context, candidate string, keep bool, exists CodeExistsFunc) (string, error) {
	if keep {
		return candidate, nil
	}
	taken, err := exists(ctx, candidate)
	if err != nil {
		return "", err
	}
	if !taken {
		return candidate, nil
	}
	for i := 1; ; i++ {
		code := fmt.Sprintf("%s_%d", candidate, i)
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
}
