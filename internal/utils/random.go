package utils

import (
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateUsernameFromChineseName 取姓名每个字拼音的随机前缀，再补 1~3 位数字
func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, py := range pinyinArray {
		length := rand.Intn(len(py)) + 1
		username += py[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

// GenerateRandomTelegramID 生成 8 位的 telegram ID
func GenerateRandomTelegramID() int64 {
	return 10_000_000 + rand.Int63n(90_000_000)
}

func GenerateRandomWorker() *domain.Worker {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)

	return &domain.Worker{
		TelegramID: GenerateRandomTelegramID(),
		FullName:   fullName,
		Username:   &username,
		IsActive:   true,
		JoinedAt:   time.Now(),
	}
}

// GenerateRandomQuantity 返回 [lo, hi] 内保留三位小数的随机数量
func GenerateRandomQuantity(lo, hi float64) domain.Quantity {
	return domain.QuantityFromFloat(lo + rand.Float64()*(hi-lo))
}

// SampleWorkTypes 不放回地随机选出至多 k 个工作类型
func SampleWorkTypes(types []*domain.WorkType, k int) []*domain.WorkType {
	k = max(0, min(k, len(types)))

	sample := make([]*domain.WorkType, 0, k)
	for _, i := range rand.Perm(len(types))[:k] {
		sample = append(sample, types[i])
	}
	return sample
}
