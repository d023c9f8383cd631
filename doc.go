// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zkproto is an engine for interactive zero-knowledge proofs of knowledge.
//
// Statements are proved with Σ-protocols (package sigma), which run as two-party
// protocols (package protocol) between a prover and a verifier, possibly many of them
// side by side inside one composite protocol. Package fiatshamir turns a Σ-protocol into
// non-interactive proofs, package damgard into a protocol that stays zero-knowledge under
// concurrent execution. Package schnorr provides representation proofs in prime order
// groups, the statements used throughout the tests.
//
// This package holds the security parameters and wires the pieces together:
//
//	group, _ := zkproof.BuildGroup(prime)
//	p := schnorr.New(group)
//	system, _ := zkproto.DefaultSecurityParameters.NewProofSystem(p)
//	proof := system.CreateProof(statement, witness, context)
package zkproto
