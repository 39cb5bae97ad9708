package relevance

// StaticRegistry 内置的 名称→代码 静态名录，满足 Registry 接口。
// 线上部署可换成从股票主数据服务加载的实现
type StaticRegistry map[string]string

func (r StaticRegistry) NameToCode() map[string]string {
	return r
}

// DefaultRegistry 常见 A 股公司名录（沪深两市高关注度标的）
func DefaultRegistry() StaticRegistry {
	return StaticRegistry{
		"贵州茅台": "600519",
		"五粮液":  "000858",
		"宁德时代": "300750",
		"比亚迪":  "002594",
		"中国平安": "601318",
		"招商银行": "600036",
		"工商银行": "601398",
		"万科":   "000002",
		"中芯国际": "688981",
		"恒瑞医药": "600276",
		"隆基绿能": "601012",
		"东方财富": "300059",
		"中信证券": "600030",
		"保利发展": "600048",
		"迈瑞医疗": "300760",
	}
}

func defaultIndustryBaskets() map[string][]string {
	return map[string][]string{
		"白酒":  {"600519", "000858"},
		"新能源": {"300750", "601012"},
		"锂电池": {"300750", "002594"},
		"银行":  {"601398", "600036"},
		"半导体": {"688981"},
		"芯片":  {"688981"},
		"医药":  {"600276", "300760"},
		"房地产": {"000002", "600048"},
		"保险":  {"601318"},
		"券商":  {"600030", "300059"},
	}
}
