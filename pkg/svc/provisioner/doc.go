// Package provisioner runs the installation as a fixed sequence of idempotent steps.
//
// Each step is either mandatory, aborting the run with exit code 1 on failure,
// or best-effort, logging a warning and continuing. Steps check whether their
// effect already exists before acting, so a run can be repeated safely against
// a partially or fully provisioned install path. Nothing is retried and nothing
// is rolled back.
package provisioner
