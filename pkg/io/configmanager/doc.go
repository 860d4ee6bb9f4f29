// Package configmanager resolves the install configuration from defaults, an optional
// hunyuan3d-setup.yaml file, HUNYUAN3D_SETUP_* environment variables and command-line flags,
// in increasing order of precedence.
package configmanager
