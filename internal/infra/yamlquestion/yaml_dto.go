package yamlquestion

type YAMLQuestion struct {
	ID        string         `yaml:"id"`
	Title     string         `yaml:"title"`
	Content   string         `yaml:"content" validate:"notblank"`
	Variables []YAMLVariable `yaml:"variables" validate:"dive"`
	Equations []YAMLEquation `yaml:"equations" validate:"dive"`
	Answer    *YAMLAnswer    `yaml:"answer"`
}

type YAMLVariable struct {
	Name      string   `yaml:"name" validate:"notblank"`
	Min       float64  `yaml:"min"`
	Max       float64  `yaml:"max"`
	Step      *float64 `yaml:"step"`
	Precision *int     `yaml:"precision"`
	Unit      string   `yaml:"unit"`

	// Value pins the variable instead of drawing it.
	Value *float64 `yaml:"value"`
}

type YAMLEquation struct {
	ID        string   `yaml:"id" validate:"notblank"`
	Name      string   `yaml:"name"`
	LaTeX     string   `yaml:"latex" validate:"notblank"`
	Variables []string `yaml:"variables"`
}

type YAMLAnswer struct {
	Expression string `yaml:"expression" validate:"notblank"`
	Unit       string `yaml:"unit"`
	Precision  *int   `yaml:"precision"`
	ConvertTo  string `yaml:"convert_to"`
}
