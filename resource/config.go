package resource

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// EnvImageRoots 环境变量，追加图像搜索目录（路径分隔符分隔）
const EnvImageRoots = "ZCAD_IMAGE_ROOTS"

// Config 资源定位配置
type Config struct {
	// ImageRoots 图像搜索目录，按声明顺序尝试
	ImageRoots []string `toml:"image_roots"`
}

// LoadConfig 从 TOML 文件读取配置，文件不存在返回零值配置
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
