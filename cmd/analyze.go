package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"reactsense/internal/config"
	"reactsense/internal/dao"
	"reactsense/internal/emotion"
	"reactsense/internal/video"
)

var (
	analyzeMock   bool
	analyzeOutput string
)

var analyzeCommand = &cobra.Command{
	Use:   "analyze <video-or-image-file>",
	Short: "Analyze one video or still image locally without queue or database",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAnalyze(args[0]); err != nil {
			logrus.Fatal(err)
		}
	},
}

func init() {
	analyzeCommand.Flags().BoolVarP(&analyzeMock, "mock", "m", false, "Use mock emotion data")
	analyzeCommand.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Write result JSON to file instead of stdout")
}

// logPublisher reports progress to the log instead of NSQ.
type logPublisher struct{}

func (logPublisher) Publish(ev *dao.JobEvent) {
	switch ev.Type {
	case dao.EventTypeProgress:
		logrus.Infof("[%3d%%] %s", ev.Progress, ev.Step)
	case dao.EventTypeError:
		logrus.Errorf("analysis failed: %s", ev.Error)
	}
}

func isImagePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func runAnalyze(inputPath string) error {
	conf, err := config.InitConfig(configFile)
	if err != nil {
		return fmt.Errorf("initConfig error: %w", err)
	}

	opts := emotion.Options{
		APIKey:           conf.Hume.APIKey,
		ForceMock:        analyzeMock || conf.Hume.ForceMock,
		StreamingEnabled: conf.Hume.StreamingEnabled,
		StreamURL:        conf.Hume.StreamURL,
		BatchURL:         conf.Hume.BatchURL,
		HTTPClient:       &http.Client{Timeout: 60 * time.Second},
	}
	strategy, err := emotion.Select(opts)
	if err != nil {
		return err
	}
	logrus.Infof("using %s strategy", strategy.Name())

	if isImagePath(inputPath) {
		return analyzeImage(inputPath, strategy)
	}

	src, err := video.Open(inputPath, conf.SampleRate)
	if err != nil {
		return err
	}
	info := src.Info()
	logrus.Infof("video: %.1fs, %.2f fps, %d frames, %d samples",
		info.DurationSeconds, info.FPS, info.FrameCount, info.SampleCount)

	jobUuid := strings.ReplaceAll(uuid.New().String(), "-", "")
	rep := emotion.NewReporter(jobUuid, dao.RefTypeReactionVideo, 0, logPublisher{})

	start := time.Now()
	records, err := strategy.Analyze(context.Background(), src, rep)
	if err != nil {
		return err
	}
	return writeResult(records, time.Since(start))
}

// analyzeImage runs the single-frame batch variant over one encoded image.
func analyzeImage(path string, strategy emotion.Strategy) error {
	batch, ok := strategy.(*emotion.BatchStrategy)
	if !ok {
		return fmt.Errorf("still images need the batch strategy, got %s", strategy.Name())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	start := time.Now()
	records := batch.AnalyzeFrames(context.Background(),
		[]emotion.Frame{{Num: 0, Timestamp: 0, JPEG: data}},
		func(done, total int) {
			logrus.Infof("analyzed %d/%d frames", done, total)
		})
	return writeResult(records, time.Since(start))
}

func writeResult(records []dao.FrameRecord, elapsed time.Duration) error {
	result := dao.AnalysisResult{
		FrameResults:          records,
		Summary:               emotion.Summarize(records),
		ProcessingTimeSeconds: elapsed.Seconds(),
	}
	data, err := json.MarshalIndent(&result, "", "  ")
	if err != nil {
		return err
	}

	if analyzeOutput != "" {
		return os.WriteFile(analyzeOutput, data, 0644)
	}
	fmt.Println(string(data))
	return nil
}
