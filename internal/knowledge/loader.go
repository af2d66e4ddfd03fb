package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"ingechat/internal/model"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	careersDir       = "carreras"
	faqsFile         = "faqs.json"
	institutionFile  = "unefa_info.json"
	trainingFile     = "training_data.json"
	careerFilePrefix = "ingenieria_"
)

// faqDocument is the on-disk FAQ layout
type faqDocument struct {
	Questions []model.FaqEntry `json:"preguntas_frecuentes"`
}

// LoadDataset reads every knowledge source under dir.
// Missing or malformed sources are logged and yield empty collections;
// loading itself never fails.
func LoadDataset(dir string, logger *zap.Logger) model.Dataset {
	ds := model.Dataset{
		Careers:  loadCareers(filepath.Join(dir, careersDir), logger),
		FAQs:     loadFAQs(filepath.Join(dir, faqsFile), logger),
		Facts:    loadInstitutionFacts(filepath.Join(dir, institutionFile), logger),
		Training: loadTraining(filepath.Join(dir, trainingFile), logger),
	}

	logger.Info("Knowledge loaded",
		zap.String("dir", dir),
		zap.Int("careers", len(ds.Careers)),
		zap.Int("faqs", len(ds.FAQs)),
		zap.Int("facts", len(ds.Facts)),
		zap.Int("training_pairs", len(ds.Training)),
	)
	return ds
}

func loadCareers(dir string, logger *zap.Logger) []model.CareerRecord {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("Careers directory not available", zap.String("path", dir), zap.Error(err))
		return nil
	}

	var careers []model.CareerRecord
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, name)
		record, err := readCareer(path, ext)
		if err != nil {
			logger.Error("Failed to load career", zap.String("path", path), zap.Error(err))
			continue
		}
		record.Key = careerKey(name)
		careers = append(careers, record)
		logger.Info("Career loaded", zap.String("career", record.Key))
	}
	return careers
}

// careerKey maps "ingenieria_sistemas.json" to "sistemas"
func careerKey(filename string) string {
	key := strings.TrimSuffix(filename, filepath.Ext(filename))
	key = strings.TrimPrefix(strings.ToLower(key), careerFilePrefix)
	return key
}

func readCareer(path, ext string) (model.CareerRecord, error) {
	var record model.CareerRecord
	data, err := os.ReadFile(path)
	if err != nil {
		return record, fmt.Errorf("failed to read career file: %w", err)
	}

	if ext == ".json" {
		err = json.Unmarshal(data, &record)
	} else {
		err = yaml.Unmarshal(data, &record)
	}
	if err != nil {
		return record, fmt.Errorf("failed to parse career file: %w", err)
	}
	return record, nil
}

func loadFAQs(path string, logger *zap.Logger) []model.FaqEntry {
	data, ok := readSource(path, "FAQs", logger)
	if !ok {
		return nil
	}

	var doc faqDocument
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc.Questions
	}
	// Older exports store the questions as a bare array.
	var list []model.FaqEntry
	if err := json.Unmarshal(data, &list); err != nil {
		logger.Error("Failed to parse FAQs", zap.String("path", path), zap.Error(err))
		return nil
	}
	return list
}

func loadInstitutionFacts(path string, logger *zap.Logger) map[string]string {
	data, ok := readSource(path, "institution facts", logger)
	if !ok {
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Error("Failed to parse institution facts", zap.String("path", path), zap.Error(err))
		return nil
	}

	facts := make(map[string]string, len(raw))
	for topic, value := range raw {
		text, ok := value.(string)
		if !ok {
			logger.Warn("Skipping non-text institution fact", zap.String("topic", topic))
			continue
		}
		facts[topic] = text
	}
	return facts
}

func loadTraining(path string, logger *zap.Logger) []model.TrainingPair {
	data, ok := readSource(path, "training data", logger)
	if !ok {
		return nil
	}

	var pairs []model.TrainingPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		logger.Error("Failed to parse training data", zap.String("path", path), zap.Error(err))
		return nil
	}
	return pairs
}

// readSource reads one knowledge file, logging why it is unavailable.
func readSource(path, what string, logger *zap.Logger) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Knowledge source not found", zap.String("source", what), zap.String("path", path))
		return nil, false
	}
	if err != nil {
		logger.Error("Failed to read knowledge source", zap.String("source", what), zap.String("path", path), zap.Error(err))
		return nil, false
	}
	return data, true
}
