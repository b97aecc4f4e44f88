package tools

import (
	"bytes"
	"fmt"
	"reflect"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportToExcel 将结构体切片写入 sheet，表头取 excel tag，"-" 表示跳过
func ExportToExcel(f *excelize.File, sheet string, data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("data %T 不是切片", data)
	}

	elemType := v.Type().Elem()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("data %T 不是结构体切片", data)
	}

	if sheet == "" {
		sheet = "Sheet1"
	}
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}

	type fieldInfo struct {
		index  []int
		header string
	}

	var fields []fieldInfo

	var collect func(t reflect.Type, parent []int)
	collect = func(t reflect.Type, parent []int) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			tag := sf.Tag.Get("excel")
			if tag == "-" {
				continue
			}

			idx := append(append([]int(nil), parent...), i)

			// 匿名嵌入的结构体展开，time.Time 等值类型除外
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct && tag == "" {
				collect(sf.Type, idx)
				continue
			}
			if tag == "" {
				tag = sf.Name
			}
			fields = append(fields, fieldInfo{index: idx, header: tag})
		}
	}
	collect(elemType, nil)

	// 表头
	for i, fi := range fields {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, fi.header); err != nil {
			return err
		}
	}

	// 数据行
	row := 2
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() == reflect.Ptr {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}

		for col, fi := range fields {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(elem.FieldByIndex(fi.index))); err != nil {
				return err
			}
		}
		row++
	}

	return nil
}

func cellValue(fv reflect.Value) any {
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return ""
		}
		fv = fv.Elem()
	}
	switch val := fv.Interface().(type) {
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		// decimal.Decimal 等类型按字符串输出，避免浮点误差
		return val.String()
	default:
		return val
	}
}

// WriteWorkbook 生成只有一个 sheet 的 xlsx 文件
func WriteWorkbook(sheet string, data any) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := ExportToExcel(f, sheet, data); err != nil {
		return nil, err
	}
	if sheet != "Sheet1" {
		if idx, err := f.GetSheetIndex(sheet); err == nil && idx >= 0 {
			f.SetActiveSheet(idx)
			_ = f.DeleteSheet("Sheet1")
		}
	}
	return f.WriteToBuffer()
}
