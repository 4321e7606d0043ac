// Copyright (c) Picsafe. All rights reserved.
// Licensed under the MIT License.

//go:build !darwin

package selection

import "context"

// unavailableSelector is used on platforms without a scripting bridge to
// the file manager.
type unavailableSelector struct{}

func newPlatformSelector(Options) Selector {
	return unavailableSelector{}
}

func (unavailableSelector) Current(context.Context) (string, bool, error) {
	return "", false, ErrUnavailable
}
