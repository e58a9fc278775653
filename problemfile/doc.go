// Package problemfile reads cmrx problems from YAML or JSON files.
//
// A minimal file lists only the means; weights default to identity
// matrices, covectors to the monotone model (all +1, all −1) and the
// infeasible zones are derived from the covectors:
//
//	name: crossing
//	means:
//	  - [1, 2]
//	  - [2, 1]
//	weights_diag:
//	  - [1, 1]
//	  - [4, 4]
package problemfile
