package shadow

// ManagerBuilderOption is a functional option for configuring a Manager during creation.
type ManagerBuilderOption func(*manager)

// WithDriver attaches the GPU driver the manager allocates the shadow atlas
// and comparison sampler through. Without a driver the manager runs headless.
//
// Parameters:
//   - d: the driver to allocate GPU resources through
//
// Returns:
//   - ManagerBuilderOption: the option to apply
func WithDriver(d Driver) ManagerBuilderOption {
	return func(m *manager) {
		m.driver = d
	}
}
