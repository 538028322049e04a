package main

import (
	"sentiment-lab/ingest"
	"sentiment-lab/internal"
	"sentiment-lab/runtime"
	"sentiment-lab/scoring"
)

func resourcesConfig(config internal.Config) runtime.ResourcesConfig {
	return runtime.ResourcesConfig{
		ScorerKind:     scoring.Kind(config.ScorerKind),
		ModelPath:      config.ModelPath,
		EmbeddingsPath: config.EmbeddingsPath,
		Specialist: scoring.SpecialistConfig{
			BinPath: config.SpecialistBinPath,
			Host:    config.SpecialistHost,
			Port:    config.SpecialistPort,
			Model:   config.SpecialistModel,
			Timeout: config.SpecialistTimeout,
		},
		EmoticonsPath:     config.EmoticonsPath,
		AbbreviationsPath: config.AbbreviationsPath,
		ContractionsPath:  config.ContractionsPath,
		LemmasPath:        config.LemmasPath,
		LexiconPath:       config.LexiconPath,
		StopWords:         config.StopWordList(),
	}
}

func ingestOptions(config internal.Config) (ingest.Options, error) {
	comma, err := config.DelimiterRune()
	if err != nil {
		return ingest.Options{}, err
	}
	return ingest.Options{
		TextColumn:  config.TextColumn,
		LabelColumn: config.LabelColumn,
		Comma:       comma,
		HasHeader:   config.HasHeader,
		Limit:       config.Limit,
	}, nil
}
