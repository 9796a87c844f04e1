package main

import (
	"flag"
	"time"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrend/config"
	"github.com/bloeys/nrend/engine"
	"github.com/bloeys/nrend/logging"
	"github.com/bloeys/nrend/meshes"
	"github.com/bloeys/nrend/renderer"
	"github.com/bloeys/nrend/renderer/rend3dgl"
)

const (
	camFovDeg float32 = 45
	camNear   float32 = 0.1
	camFar    float32 = 100

	rotSpeedDeg float32 = 45
)

type model struct {
	cfg  config.ModelConfig
	mesh *meshes.Mesh
}

// Demo is the producer side: it records a frame every loop iteration and commits it to the render worker
type Demo struct {
	Win      *engine.Window
	Rend     *renderer.RenderBackendService
	Pipeline *renderer.Pipeline

	models []model

	camPos    gglm.Vec3
	rotRad    float32
	tint      gglm.Vec4
	frameTime float32
}

func main() {

	cfgPath := flag.String("config", "./res/nrend.toml", "Path to a .toml or .yaml config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to load config. Err:", err)
	}

	pipeline, err := cfg.Pipeline.Build()
	if err != nil {
		logging.ErrLog.Fatalln("Failed to build pipeline. Err:", err)
	}

	err = engine.Init(engine.InitOptions{
		MSAASamples: cfg.Render.MSAASamples,
		Srgb:        cfg.Render.SrgbFramebuffer,
	})
	if err != nil {
		logging.ErrLog.Fatalln("Failed to init nRend. Err:", err)
	}
	defer engine.Quit()

	var winFlags engine.WindowFlags
	if cfg.Window.Resizable {
		winFlags = winFlags.Set(engine.WindowFlags_RESIZABLE)
	}

	win, err := engine.CreateOpenGLWindowCentered(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height, winFlags)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to create window. Err:", err)
	}
	defer win.Destroy()

	rend := renderer.NewRenderBackendService(rend3dgl.NewRend3DGL(), win, renderer.ServiceOptions{
		TaskName:        cfg.Render.TaskName,
		VSync:           cfg.Render.VSync,
		MSAA:            cfg.Render.MSAASamples > 0,
		SrgbFramebuffer: cfg.Render.SrgbFramebuffer,
	})

	rend.SetActivePipeline(pipeline)
	if !rend.Open() {
		logging.ErrLog.Fatalln("Failed to open the render backend service")
	}
	defer rend.Close()

	win.OnResize = func(width, height int32) {
		rend.Resize(width, height)
	}

	demo := &Demo{
		Win:      win,
		Rend:     rend,
		Pipeline: pipeline,
		camPos:   gglm.NewVec3(0, 2, 6),
		tint:     gglm.NewVec4(1, 1, 1, 1),
	}
	demo.Init(cfg.Models)
	demo.Run()
}

// Init loads every model on the render worker, since that is where the GL context lives
func (d *Demo) Init(modelCfgs []config.ModelConfig) {

	loads := make([]*rend3dgl.LoadMeshEventData, len(modelCfgs))
	for i := 0; i < len(modelCfgs); i++ {
		loads[i] = &rend3dgl.LoadMeshEventData{
			Name: modelCfgs[i].Name,
			Path: modelCfgs[i].Path,
		}
		d.Rend.SendEvent(rend3dgl.EventType_LoadMesh, loads[i])
	}

	// Results are only safe to read after the worker is done with them
	d.Rend.Await()

	for i := 0; i < len(loads); i++ {

		if loads[i].Err != nil {
			logging.ErrLog.Printf("Skipping model '%s'. Err: %v\n", loads[i].Name, loads[i].Err)
			continue
		}

		m := model{cfg: modelCfgs[i], mesh: loads[i].Mesh}
		if m.cfg.Pass == "" {
			m.cfg.Pass = renderer.PassId_Scene
		}

		if m.cfg.Instances < 1 {
			m.cfg.Instances = 1
		}

		if !d.Pipeline.HasPass(m.cfg.Pass) {
			logging.WarnLog.Printf("Model '%s' uses pass '%s' which pipeline '%s' doesn't have. It won't be drawn\n", m.cfg.Name, m.cfg.Pass, d.Pipeline.Name())
		}

		d.models = append(d.models, m)
	}

	logging.InfoLog.Printf("Loaded %d of %d models\n", len(d.models), len(modelCfgs))
}

func (d *Demo) Run() {

	lastFrame := time.Now()
	for !d.Win.PollEvents() {

		now := time.Now()
		d.frameTime = float32(now.Sub(lastFrame).Seconds())
		lastFrame = now

		d.Update()
		d.Render()

		if !d.Rend.CommitNextFrame() {
			logging.ErrLog.Println("Failed to commit frame")
			return
		}
	}
}

func (d *Demo) Update() {
	d.rotRad += rotSpeedDeg * gglm.Deg2Rad * d.frameTime
}

// Render records one batch per model into the pass it asked for. Every pass is recorded
// even when empty so its clear still happens.
func (d *Demo) Render() {

	width, height := d.Rend.Size()
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}

	target := gglm.NewVec3(0, 0, 0)
	up := gglm.NewVec3(0, 1, 0)
	projMat := gglm.Perspective(camFovDeg*gglm.Deg2Rad, aspect, camNear, camFar)
	viewMat := gglm.LookAtRH(&d.camPos, &target, &up).Mat4
	projViewMat := *projMat.Clone().Mul(&viewMat)

	passes := d.Pipeline.Passes()
	for i := 0; i < len(passes); i++ {

		passId := passes[i].Id
		if d.Rend.BeginPass(passId) == nil {
			continue
		}

		for j := 0; j < len(d.models); j++ {

			m := &d.models[j]
			if m.cfg.Pass != passId {
				continue
			}

			modelTrMat := gglm.NewTrMatWithPos(0, 0, 0)
			modelTrMat.Rotate(d.rotRad, 0, 1, 0)

			d.Rend.BeginRenderBatch(m.cfg.Name)
			d.Rend.SetMatrix(renderer.MatrixType_ViewProjection, &projViewMat)
			d.Rend.SetMatrix(renderer.MatrixType_Model, &modelTrMat.Mat4)
			d.Rend.SetUniform(renderer.Uniform{Name: "tint", Value: d.tint})
			d.Rend.AddMesh(m.mesh, m.cfg.Instances)
			d.Rend.EndRenderBatch()
		}

		d.Rend.EndPass()
	}
}
