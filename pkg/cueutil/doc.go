// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// The workspace file, the command-line definition file and the user
// configuration all go through the same three steps:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with schema
//  3. Validate and decode to Go struct
//
// # Usage
//
//	//go:embed workspace_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Workspace](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Workspace",
//	    cueutil.WithFilename("monorun.cue"),
//	)
//	if err != nil {
//	    return nil, err // error carries the CUE path of the bad field
//	}
//	return result.Value, nil
package cueutil
