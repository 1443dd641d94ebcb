package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"gocv.io/x/gocv"
)

// schemaVersion is the landmark schema this bridge understands. The Python
// service reports its schema during the handshake; the 171-value feature
// layout depends on the service's landmark ordering matching the on-device
// detector, so an unknown schema is rejected rather than assumed compatible.
const schemaVersion = "mediapipe-holistic/1"

// HolisticDetector implements Detector using a Python MediaPipe Holistic
// subprocess. It is intended to be created once per video and closed when
// the video is done, mirroring the per-video tracking state of the model.
type HolisticDetector struct {
	config  Config
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  *bufio.Reader
	mu      sync.Mutex
	started bool
}

// NewHolisticDetector creates a new holistic detector. The Python process is
// started lazily on first detection.
func NewHolisticDetector(config Config) (*HolisticDetector, error) {
	if findHolisticScript(config.ScriptPath) == "" {
		return nil, fmt.Errorf("holistic_service.py not found")
	}

	return &HolisticDetector{
		config: config,
	}, nil
}

// Detect analyzes a frame and returns the holistic landmark result.
func (d *HolisticDetector) Detect(frame *gocv.Mat) (*Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	// Encode frame as JPEG
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := d.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	// Read JSON response
	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response jsonFrame
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return response.toFrame(), nil
}

// Close shuts down the Python process.
func (d *HolisticDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *HolisticDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	scriptPath := findHolisticScript(d.config.ScriptPath)
	if scriptPath == "" {
		return fmt.Errorf("holistic_service.py not found")
	}

	pythonPath := d.config.PythonPath
	if pythonPath == "" {
		pythonPath = findVenvPython()
	}
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, scriptPath,
		fmt.Sprintf("--min-detection-confidence=%g", d.config.MinDetectionConf),
		fmt.Sprintf("--min-tracking-confidence=%g", d.config.MinTrackingConf),
		fmt.Sprintf("--model-complexity=%d", d.config.ModelComplexity),
	)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start holistic service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true

	// The first line from the service is a schema handshake
	if err := d.checkSchema(); err != nil {
		d.shutdown()
		return err
	}

	return nil
}

// checkSchema reads the service's handshake line and verifies the landmark
// schema. The feature layout consumed downstream assumes pose indices 0..14
// exist and follow the canonical holistic ordering.
func (d *HolisticDetector) checkSchema() error {
	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read schema handshake: %w", err)
	}

	var hello struct {
		Schema            string `json:"schema"`
		PoseLandmarkCount int    `json:"pose_landmark_count"`
	}
	if err := json.Unmarshal([]byte(line), &hello); err != nil {
		return fmt.Errorf("parse schema handshake: %w", err)
	}

	return verifySchema(hello.Schema, hello.PoseLandmarkCount)
}

// verifySchema checks the reported schema name and pose landmark count
// against what the feature pipeline requires.
func verifySchema(schema string, poseCount int) error {
	if schema != schemaVersion {
		return fmt.Errorf("landmark schema %q not supported, want %q", schema, schemaVersion)
	}
	if poseCount < MinPoseLandmarks {
		return fmt.Errorf("service reports %d pose landmarks, need at least %d", poseCount, MinPoseLandmarks)
	}
	return nil
}

func (d *HolisticDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func findHolisticScript(override string) string {
	if override != "" {
		if _, err := os.Stat(override); err == nil {
			return override
		}
		return ""
	}

	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/holistic_service.py",
		"../scripts/holistic_service.py",
		filepath.Join(execDir, "scripts/holistic_service.py"),
		filepath.Join(os.Getenv("HOME"), ".mudra/scripts/holistic_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
// It checks for venv/bin/python relative to the project directory.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".mudra/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonFrame represents the per-frame JSON structure from the Python service.
// An absent landmark group is encoded as null.
type jsonFrame struct {
	LeftHand  []jsonPoint `json:"left_hand"`
	RightHand []jsonPoint `json:"right_hand"`
	Pose      []jsonPoint `json:"pose"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (f jsonFrame) toFrame() *Frame {
	frame := &Frame{}

	if len(f.LeftHand) > 0 {
		frame.LeftHand = toHandPoints(f.LeftHand)
	}
	if len(f.RightHand) > 0 {
		frame.RightHand = toHandPoints(f.RightHand)
	}
	if len(f.Pose) > 0 {
		frame.Pose = make([]Point3D, len(f.Pose))
		for i, p := range f.Pose {
			frame.Pose[i] = Point3D{X: p.X, Y: p.Y, Z: p.Z}
		}
	}

	return frame
}

func toHandPoints(points []jsonPoint) *[NumHandLandmarks]Point3D {
	var hand [NumHandLandmarks]Point3D
	for i := 0; i < NumHandLandmarks && i < len(points); i++ {
		hand[i] = Point3D{X: points[i].X, Y: points[i].Y, Z: points[i].Z}
	}
	return &hand
}
