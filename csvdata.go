package kfeed

// Сохранение и загрузка свечей в csv: для команды load и офлайн-провайдера

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const csvTimeLayout = "2006-01-02 15:04"

func DataFileName(dataDir string, ticker string, period Period) string {
	return path.Join(dataDir, ticker+"_"+period.String()+".csv")
}

func LoadBars(dataDir string, ticker string, period Period) ([]Bar, error) {
	fileName := DataFileName(dataDir, ticker, period)
	file, err := os.Open(fileName)
	if err != nil {
		l.Debug("ранее сохранённых файлов со свечами нет",
			zap.String("fileName", fileName), zap.Error(err))
		return nil, err
	}
	defer file.Close()

	var bars []Bar
	r := csv.NewReader(bufio.NewReader(file))
	line := 0
	for {
		line++
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			l.Error("ошибка разбора файла",
				zap.String("fileName", fileName), zap.Error(err))
			return bars, err
		}
		if len(record) != 7 {
			l.Error("количество столбцов отличается от 7",
				zap.Int("line", line), zap.String("fileName", fileName))
			continue
		}
		if line == 1 {
			//пропускаем строку с заголовком
			continue
		}

		t, err := time.Parse(csvTimeLayout, record[0])
		if err != nil {
			l.Error("time.Parse error",
				zap.String("fileName", fileName),
				zap.Int("line", line),
				zap.Error(err))
			continue
		}
		bars = append(bars, Bar{
			Timestamp: t.UTC().UnixMilli(),
			Open:      parseCSVValue(record[1]),
			High:      parseCSVValue(record[2]),
			Low:       parseCSVValue(record[3]),
			Close:     parseCSVValue(record[4]),
			Volume:    parseCSVValue(record[5]),
			Turnover:  parseCSVValue(record[6]),
		})
	}
	return bars, nil
}

func parseCSVValue(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		l.Error("не смог разобрать число в csv", zap.String("value", s))
		return 0
	}
	return v
}

func SaveBars(dataDir string, ticker string, period Period, bars []Bar) error {
	fileName := DataFileName(dataDir, ticker, period)
	dir := filepath.Dir(fileName)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil && !os.IsExist(err) {
		l.Error("не смог создать каталог", zap.String("path", dir), zap.Error(err))
		return err
	}

	file, err := os.OpenFile(fileName, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		l.Error("не смог открыть файл", zap.String("fileName", fileName), zap.Error(err))
		return err
	}
	defer file.Close()

	datawriter := bufio.NewWriter(file)
	defer datawriter.Flush()

	datawriter.WriteString("Time,Open,High,Low,Close,Volume,Turnover\n") //nolint:golint,errcheck
	for _, bar := range bars {
		_, err = datawriter.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s\n",
			time.UnixMilli(bar.Timestamp).UTC().Format(csvTimeLayout),
			formatCSVValue(bar.Open),
			formatCSVValue(bar.High),
			formatCSVValue(bar.Low),
			formatCSVValue(bar.Close),
			formatCSVValue(bar.Volume),
			formatCSVValue(bar.Turnover),
		))
		if err != nil {
			l.Error("не смог записать в файл",
				zap.String("fileName", fileName), zap.Error(err))
			return err
		}
	}
	return nil
}

func formatCSVValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
