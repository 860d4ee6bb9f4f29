// Package svc provides the service layer of hunyuan3d-setup.
//
// Subpackages:
//   - diskspace: free-space probing and cache placement decisions
//   - provisioner: the ordered installation sequence
//   - toolchain: git, uv, compiler and interpreter discovery
//   - verifier: the capability import probe
package svc
