package v1alpha1

const (
	// DefaultPythonVersion is the interpreter version used for the virtual environment.
	DefaultPythonVersion = "3.10"
	// DefaultRepositoryURL is the upstream toolkit repository.
	DefaultRepositoryURL = "https://github.com/Tencent/Hunyuan3D-2.git"
	// DefaultRepositoryDir is the checkout directory name inside the install path.
	DefaultRepositoryDir = "Hunyuan3D-2"
	// DefaultVenvDir is the virtual environment directory name inside the install path.
	DefaultVenvDir = "venv"
	// DefaultManifestFile is the pinned dependency manifest written before dependency sync.
	DefaultManifestFile = "requirements-hunyuan3d.txt"
	// DefaultLocalCacheDir is the repository-relative package cache used in low-disk-mode.
	DefaultLocalCacheDir = ".uv-cache"
	// DefaultModelCacheDir is the model cache home relative to the install path.
	DefaultModelCacheDir = "cache/huggingface"
	// DefaultUseCUDA12 is the default of the legacy CUDA 12 switch.
	DefaultUseCUDA12 = true
	// DefaultInstallBuildTools enables the best-effort compiler toolchain install.
	DefaultInstallBuildTools = true
)

// Disk thresholds in bytes.
const (
	GiB = 1 << 30
	// DiskWarnThreshold triggers a low disk warning.
	DiskWarnThreshold uint64 = 15 * GiB
	// DiskLowModeThreshold forces low-disk-mode.
	DiskLowModeThreshold uint64 = 10 * GiB
)

// CUDARuntime is one row of the CUDA flavor table.
type CUDARuntime struct {
	Flavor      CUDAFlavor
	IndexURL    string
	Torch       string
	TorchVision string
	// Accelerator is the version range of the triton JIT compiler matching Torch.
	// Empty means the accelerator is not installed.
	Accelerator string
}

// RuntimeFor returns the pinned runtime versions for a CUDA flavor.
func RuntimeFor(flavor CUDAFlavor) CUDARuntime {
	switch flavor {
	case CUDAFlavorCU118:
		return CUDARuntime{
			Flavor:      CUDAFlavorCU118,
			IndexURL:    "https://download.pytorch.org/whl/cu118",
			Torch:       "2.4.0+cu118",
			TorchVision: "0.19.0+cu118",
			Accelerator: ">=3.0,<3.2",
		}
	case CUDAFlavorNone:
		return CUDARuntime{
			Flavor:      CUDAFlavorNone,
			IndexURL:    "https://download.pytorch.org/whl/cpu",
			Torch:       "2.5.1+cpu",
			TorchVision: "0.20.1+cpu",
		}
	case CUDAFlavorCU124:
		fallthrough
	default:
		return CUDARuntime{
			Flavor:      CUDAFlavorCU124,
			IndexURL:    "https://download.pytorch.org/whl/cu124",
			Torch:       "2.5.1+cu124",
			TorchVision: "0.20.1+cu124",
			Accelerator: ">=3.1,<3.2",
		}
	}
}

// AcceleratorPackage returns the triton distribution published for the platform.
func AcceleratorPackage(windows bool) string {
	if windows {
		return "triton-windows"
	}

	return "triton"
}

// AcceleratorRequirement returns the pip requirement of the accelerator, or ""
// when the flavor has none.
func (r CUDARuntime) AcceleratorRequirement(windows bool) string {
	if r.Accelerator == "" {
		return ""
	}

	return AcceleratorPackage(windows) + r.Accelerator
}

// CorePackages returns the pinned core dependencies synced from the manifest.
func CorePackages() []string {
	return []string{
		"ninja==1.11.1.1",
		"pybind11==2.13.6",
		"diffusers==0.31.0",
		"transformers==4.46.3",
		"accelerate==1.1.1",
		"einops==0.8.0",
		"omegaconf==2.3.0",
		"opencv-python==4.10.0.84",
		"numpy==1.26.4",
		"pillow==10.4.0",
		"tqdm==4.67.1",
		"trimesh==4.5.3",
		"pygltflib==1.16.3",
		"xatlas==0.0.9",
		"rembg==2.0.60",
		"onnxruntime==1.20.1",
	}
}

// FormatPackages returns the optional alternate 3D format libraries used for FBX export.
func FormatPackages() []string {
	return []string{
		"pymeshlab==2023.12.post2",
		"open3d==0.18.0",
		"bpy==4.0.0",
	}
}

// NativeModule is an optional extension compiled from the repository checkout.
type NativeModule struct {
	Name string
	// Source is the module directory relative to the repository root.
	Source string
	// RequiresCUDA skips the build for the CPU flavor.
	RequiresCUDA bool
}

// NativeModules returns the texture generation extensions built against the installed runtime.
func NativeModules() []NativeModule {
	return []NativeModule{
		{Name: "custom_rasterizer", Source: "hy3dgen/texgen/custom_rasterizer", RequiresCUDA: true},
		{Name: "differentiable_renderer", Source: "hy3dgen/texgen/differentiable_renderer"},
	}
}

// TargetPackage is the import name of the installed toolkit.
const TargetPackage = "hy3dgen"

// Capabilities returns the fixed list of import names probed after installation:
// runtime, target package, accelerator, three format libraries, five core dependencies.
func Capabilities() []string {
	return []string{
		"torch",
		TargetPackage,
		"triton",
		"pymeshlab",
		"open3d",
		"bpy",
		"diffusers",
		"transformers",
		"numpy",
		"PIL",
		"cv2",
	}
}

// SmokeTestCapabilities returns the imports exercised by the generated smoke test launcher.
func SmokeTestCapabilities() []string {
	return []string{"torch", TargetPackage, TargetPackage + ".shapegen"}
}

// MinimumPythonVersion is the oldest interpreter the toolkit runs on.
const MinimumPythonVersion = "3.8"

// Dependency maps an import name to the distribution that provides it.
type Dependency struct {
	Import  string
	Package string
}

// CoreDependencies returns the imports the generation pipeline cannot run without.
func CoreDependencies() []Dependency {
	return []Dependency{
		{Import: "diffusers", Package: "diffusers"},
		{Import: "transformers", Package: "transformers"},
		{Import: "numpy", Package: "numpy"},
		{Import: "PIL", Package: "pillow"},
		{Import: "cv2", Package: "opencv-python"},
		{Import: "rembg", Package: "rembg"},
		{Import: "trimesh", Package: "trimesh"},
		{Import: "tqdm", Package: "tqdm"},
		{Import: "omegaconf", Package: "omegaconf"},
		{Import: "einops", Package: "einops"},
	}
}

// OptionalDependencies returns imports that only enable extra export or speed paths.
func OptionalDependencies() []Dependency {
	return []Dependency{
		{Import: "pymeshlab", Package: "pymeshlab"},
		{Import: "pygltflib", Package: "pygltflib"},
		{Import: "xatlas", Package: "xatlas"},
		{Import: "accelerate", Package: "accelerate"},
		{Import: "onnxruntime", Package: "onnxruntime"},
	}
}
