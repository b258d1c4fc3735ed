package seed

import (
	"github.com/2beens/neuralspace/internal/textjson"
)

type PageSeed struct {
	Key     string
	Title   string
	Content textjson.Document
}

type ProjectSeed struct {
	Title       string
	Slug        string
	Description string
	TechStack   []string
	GithubURL   string
	LiveDemo    string
	ImageURL    string
}

type BlogSeed struct {
	Title   string
	Slug    string
	Summary string
	Content string
}

var DefaultPages = []PageSeed{
	{
		Key:   "home",
		Title: "Home Page",
		Content: textjson.Document{
			"hero": map[string]any{
				"title":    "Welcome to Neural Space",
				"subtitle": "ML Engineer & 3D Enthusiast",
				"cta_text": "Explore Projects",
			},
			"sections": []any{
				map[string]any{
					"type":    "intro",
					"content": "I'm Satyam, a Machine Learning Engineer passionate about creating innovative solutions at the intersection of AI and interactive 3D experiences.",
				},
			},
		},
	},
	{
		Key:   "about",
		Title: "About Page",
		Content: textjson.Document{
			"bio": "# About Me\n\nI'm a passionate Machine Learning Engineer with expertise in building intelligent systems and creating immersive 3D experiences.",
			"skills": []any{
				"Python", "TensorFlow", "PyTorch", "Three.js", "React",
				"Machine Learning", "Deep Learning", "Computer Vision", "3D Graphics",
			},
			"experience": []any{
				map[string]any{
					"title":       "Machine Learning Engineer",
					"company":     "Tech Company",
					"period":      "2020 - Present",
					"description": "Developing and deploying machine learning models for production systems.",
				},
			},
			"education":      []any{},
			"certifications": []any{},
		},
	},
}

var SampleProjects = []ProjectSeed{
	{
		Title:       "Neural Mesh Reconstruction",
		Slug:        "neural-mesh-reconstruction",
		Description: "Deep learning pipeline for reconstructing 3D meshes from sparse point clouds using Graph Neural Networks.",
		TechStack:   []string{"Python", "PyTorch", "Open3D", "CUDA", "Docker"},
		GithubURL:   "https://github.com/username/neural-mesh-reconstruction",
		LiveDemo:    "https://neural-mesh-demo.vercel.app",
		ImageURL:    "/images/neural-mesh.jpg",
	},
	{
		Title:       "Real-time Style Transfer for 3D Scenes",
		Slug:        "realtime-3d-style-transfer",
		Description: "GPU-accelerated neural style transfer for real-time 3D scene rendering.",
		TechStack:   []string{"C++", "CUDA", "OpenGL", "PyTorch", "CMake"},
		GithubURL:   "https://github.com/username/3d-style-transfer",
		ImageURL:    "/images/style-transfer.jpg",
	},
	{
		Title:       "Volumetric Human Pose Estimation",
		Slug:        "volumetric-pose-estimation",
		Description: "Multi-view 3D human pose estimation using volumetric representations and a transformer architecture.",
		TechStack:   []string{"Python", "TensorFlow", "OpenCV", "NumPy", "Flask"},
		GithubURL:   "https://github.com/username/volumetric-pose",
		LiveDemo:    "https://pose-estimation-demo.herokuapp.com",
		ImageURL:    "/images/pose-estimation.jpg",
	},
	{
		Title:       "NeRF Scene Optimization",
		Slug:        "nerf-scene-optimization",
		Description: "Neural Radiance Fields with custom sampling strategies, 40% faster training.",
		TechStack:   []string{"Python", "JAX", "Optax", "Matplotlib"},
		GithubURL:   "https://github.com/username/optimized-nerf",
		LiveDemo:    "https://nerf-viewer.netlify.app",
		ImageURL:    "/images/nerf-optimization.jpg",
	},
	{
		Title:       "3D Object Detection Pipeline",
		Slug:        "3d-object-detection",
		Description: "End-to-end 3D object detection for autonomous vehicles using LiDAR and camera fusion.",
		TechStack:   []string{"Python", "PyTorch", "PCL", "ROS", "Docker"},
		GithubURL:   "https://github.com/username/3d-object-detection",
		ImageURL:    "/images/object-detection.jpg",
	},
	{
		Title:       "Generative 3D Asset Creation",
		Slug:        "generative-3d-assets",
		Description: "GAN-based generation of game-ready 3D assets from text descriptions.",
		TechStack:   []string{"Python", "PyTorch", "Blender API", "CLIP", "Gradio"},
		GithubURL:   "https://github.com/username/generative-3d-assets",
		LiveDemo:    "https://3d-asset-generator.streamlit.app",
		ImageURL:    "/images/generative-assets.jpg",
	},
}

var SampleBlogs = []BlogSeed{
	{
		Title:   "Getting Started with Neural Radiance Fields",
		Slug:    "getting-started-nerf",
		Summary: "Understanding and implementing NeRF from scratch, from the math to a working renderer.",
		Content: "# Getting Started with Neural Radiance Fields\n\nNeRF represents a scene as a continuous volumetric function learned by a small MLP.",
	},
	{
		Title:   "Optimizing 3D Deep Learning Models",
		Slug:    "optimizing-3d-deep-learning",
		Summary: "Practical techniques for faster training and inference on point clouds and meshes.",
		Content: "# Optimizing 3D Deep Learning Models\n\nMixed precision, sparse convolutions and careful batching go a long way.",
	},
	{
		Title:   "Building Production 3D ML Systems",
		Slug:    "production-3d-ml-systems",
		Summary: "Lessons from taking 3D perception models from notebooks to production.",
		Content: "# Building Production 3D ML Systems\n\nData pipelines matter more than model architecture.",
	},
	{
		Title:   "The Future of 3D AI",
		Slug:    "future-of-3d-ai",
		Summary: "Where generative 3D, spatial computing and neural rendering are heading.",
		Content: "# The Future of 3D AI\n\nSpatial computing will make 3D understanding a default capability.",
	},
}
