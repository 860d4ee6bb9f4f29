// Package v1alpha1 contains the installation configuration, the pinned runtime
// tables and the result types produced by a provisioning run.
package v1alpha1
