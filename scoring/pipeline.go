package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sentiment-lab/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Model holds the parameters of the classical pipeline as exported by the
// training side: a standard scaler, a PCA projection and a random forest.
type Model struct {
	Scaler Scaler `json:"scaler"`
	PCA    PCA    `json:"pca"`
	Forest Forest `json:"forest"`
}

type Scaler struct {
	Mean  []float64 `json:"mean" validate:"required,min=1"`
	Scale []float64 `json:"scale" validate:"required,min=1"`
}

type PCA struct {
	Mean       []float64   `json:"mean" validate:"required,min=1"`
	Components [][]float64 `json:"components" validate:"required,min=1"`
}

type Forest struct {
	Trees []Tree `json:"trees" validate:"required,min=1,dive"`
}

// Tree is a flattened decision tree. Nodes are stored in pre-order, so a
// child always has a greater index than its parent. A node with Left == -1
// is a leaf whose Value is the probability of the positive class.
type Tree struct {
	Nodes []Node `json:"nodes" validate:"required,min=1"`
}

type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

const leaf = -1

// Pipeline scores comment vectors: standardize, project, then average the
// leaf probabilities of every tree.
type Pipeline struct {
	model     Model
	dimension int
}

// LoadPipeline reads and validates a JSON model file.
func LoadPipeline(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var model Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidModel, err)
	}
	return NewPipeline(model)
}

func NewPipeline(model Model) (*Pipeline, error) {
	if err := validate.Struct(model); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidModel, err)
	}
	dimension := len(model.Scaler.Mean)
	if len(model.Scaler.Scale) != dimension || len(model.PCA.Mean) != dimension {
		return nil, fmt.Errorf("%w: scaler and pca must have %d features", errors.ErrInvalidModel, dimension)
	}
	for i, component := range model.PCA.Components {
		if len(component) != dimension {
			return nil, fmt.Errorf("%w: pca component %d has %d features, expected %d",
				errors.ErrInvalidModel, i, len(component), dimension)
		}
	}
	components := len(model.PCA.Components)
	for t, tree := range model.Forest.Trees {
		if err := checkTree(tree, components); err != nil {
			return nil, fmt.Errorf("%w: tree %d: %v", errors.ErrInvalidModel, t, err)
		}
	}
	return &Pipeline{model: model, dimension: dimension}, nil
}

// Dimension is the expected length of input vectors.
func (p *Pipeline) Dimension() int {
	return p.dimension
}

func (p *Pipeline) Score(_ context.Context, input Input) (float64, error) {
	if len(input.Vector) == 0 {
		return 0, errors.ErrMissingVector
	}
	if len(input.Vector) != p.dimension {
		return 0, fmt.Errorf("%w: expected %d, got %d", errors.ErrDimensionMismatch, p.dimension, len(input.Vector))
	}
	features := p.project(p.standardize(input.Vector))

	sum := 0.0
	for _, tree := range p.model.Forest.Trees {
		sum += tree.predict(features)
	}
	return Clamp(sum / float64(len(p.model.Forest.Trees))), nil
}

func (p *Pipeline) standardize(x []float64) []float64 {
	z := make([]float64, len(x))
	for i, v := range x {
		scale := p.model.Scaler.Scale[i]
		if scale == 0 {
			scale = 1
		}
		z[i] = (v - p.model.Scaler.Mean[i]) / scale
	}
	return z
}

func (p *Pipeline) project(z []float64) []float64 {
	projected := make([]float64, len(p.model.PCA.Components))
	for k, component := range p.model.PCA.Components {
		for j, weight := range component {
			projected[k] += (z[j] - p.model.PCA.Mean[j]) * weight
		}
	}
	return projected
}

func (t Tree) predict(features []float64) float64 {
	i := 0
	for t.Nodes[i].Left != leaf {
		node := t.Nodes[i]
		if features[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
	return t.Nodes[i].Value
}

func checkTree(tree Tree, features int) error {
	for i, node := range tree.Nodes {
		if node.Left == leaf {
			continue
		}
		if node.Feature < 0 || node.Feature >= features {
			return fmt.Errorf("node %d uses feature %d out of %d", i, node.Feature, features)
		}
		for _, child := range []int{node.Left, node.Right} {
			if child <= i || child >= len(tree.Nodes) {
				return fmt.Errorf("node %d has invalid child %d", i, child)
			}
		}
	}
	return nil
}
