package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"revshare/domain/ingestion"
	pkgerrors "revshare/pkg/errors"
	"revshare/pkg/utils"
)

// DefaultSource labels records lifted from a task-manager CSV export.
const DefaultSource = "feishu_csv"

// Column headers of a task-manager export. The title column is
// required; everything else is optional.
const (
	columnTitle       = "任务名称"
	columnExecutors   = "任务执行人"
	columnManagers    = "任务管理人"
	columnDescription = "任务详细描述"
	columnCreated     = "创建日期"
	columnDeadline    = "截止日期"
	columnIsAPI       = "是否是API"
	columnAPICalls    = "API调用次数"
)

// syntheticParentRef marks records the parser invented for parent
// titles the file references but never defines.
const syntheticParentRef = "synthetic:missing_parent"

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}

	whitespaceRun   = regexp.MustCompile(`\s+`)
	multivalueSplit = regexp.MustCompile("[,，;；\n]+")
)

// ParseOptions tune how a task export is interpreted
type ParseOptions struct {
	// Source labels where records came from
	Source string

	// ParentColumns lists the headers holding parent references, in
	// priority order
	ParentColumns []string

	// CreateMissingParents synthesizes a placeholder record for every
	// parent title the file references but never defines
	CreateMissingParents bool
}

// DefaultParseOptions returns the options a standard export expects
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		Source:               DefaultSource,
		ParentColumns:        []string{"父记录", "父记录 副本"},
		CreateMissingParents: true,
	}
}

// ParseTasksCSV opens and parses the export at path. The returned
// dataset carries the path as its source location.
func ParseTasksCSV(path string, opts ParseOptions) (*ingestion.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open CSV file %s", path)
	}
	defer f.Close()

	dataset, err := ParseTasks(f, opts)
	if err != nil {
		return nil, err
	}

	dataset.SourcePath = path
	return dataset, nil
}

// ParseTasks reads a task-manager CSV export into a dataset. Parent
// relations become directed citations pointing child to parent, titles
// are deduplicated into unique record keys, and every row or relation
// the parser had to work around is reported as a warning rather than an
// error. Only a missing header row or a missing title column aborts the
// parse.
func ParseTasks(r io.Reader, opts ParseOptions) (*ingestion.Dataset, error) {
	if opts.Source == "" {
		opts.Source = DefaultSource
	}
	if opts.ParentColumns == nil {
		opts.ParentColumns = DefaultParseOptions().ParentColumns
	}

	p := &tasksParser{
		opts:        opts,
		records:     make([]ingestion.TaskRecord, 0),
		citations:   make([]ingestion.CitationRecord, 0),
		recordIndex: make(map[string]int),
		keysByTitle: make(map[string][]string),
		titleCounts: make(map[string]int),
		usernames:   make(map[string]struct{}),
		warnings:    make([]ingestion.ParseWarning, 0),
	}

	if err := p.readRows(r); err != nil {
		return nil, err
	}
	if opts.CreateMissingParents {
		p.synthesizeParents()
	}
	p.resolveCitations()

	return &ingestion.Dataset{
		Records:   p.records,
		Citations: p.citations,
		Users:     p.users(),
		Warnings:  p.warnings,
	}, nil
}

// tasksParser accumulates parse state row by row
type tasksParser struct {
	opts        ParseOptions
	columns     map[string]int
	parentCols  []string
	records     []ingestion.TaskRecord
	citations   []ingestion.CitationRecord
	recordIndex map[string]int
	keysByTitle map[string][]string
	titleCounts map[string]int
	usernames   map[string]struct{}
	warnings    []ingestion.ParseWarning
}

func (p *tasksParser) readRows(r io.Reader) error {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return pkgerrors.NewValidationError("CSV has no header row").
			WithCode(pkgerrors.CodeMalformedCSV)
	}
	if err != nil {
		return pkgerrors.NewValidationError("failed to read CSV header").
			WithCode(pkgerrors.CodeMalformedCSV).
			WithCause(err)
	}

	// Later duplicate headers shadow earlier ones.
	p.columns = make(map[string]int, len(header))
	for i, name := range header {
		if name := normalizeText(name); name != "" {
			p.columns[name] = i
		}
	}
	if _, ok := p.columns[columnTitle]; !ok {
		return pkgerrors.NewValidationErrorf("CSV missing required column: %s", columnTitle).
			WithCode(pkgerrors.CodeMalformedCSV)
	}

	p.parentCols = make([]string, 0, len(p.opts.ParentColumns))
	for _, col := range p.opts.ParentColumns {
		if _, ok := p.columns[col]; ok {
			p.parentCols = append(p.parentCols, col)
		}
	}
	if len(p.parentCols) == 0 {
		p.warn(ingestion.WarningMissingParentColumns,
			fmt.Sprintf("CSV missing parent columns: %s", strings.Join(p.opts.ParentColumns, ", ")), 0)
	}

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return pkgerrors.NewValidationError("failed to read CSV row").
				WithCode(pkgerrors.CodeMalformedCSV).
				WithCause(err)
		}
		rowNum++
		p.parseRow(rowNum, row)
	}
	return nil
}

func (p *tasksParser) parseRow(rowNum int, row []string) {
	title := normalizeText(p.cell(row, columnTitle))
	if title == "" {
		p.warn(ingestion.WarningMissingTitle, "row missing 任务名称", rowNum)
		return
	}

	parents := make([]string, 0)
	seen := make(map[string]struct{})
	for _, col := range p.parentCols {
		for _, parent := range splitMultivalue(p.cell(row, col)) {
			if parent == title {
				continue
			}
			if _, dup := seen[parent]; dup {
				continue
			}
			seen[parent] = struct{}{}
			parents = append(parents, parent)
		}
	}
	sort.Strings(parents)

	executors := splitMultivalue(p.cell(row, columnExecutors))
	managers := splitMultivalue(p.cell(row, columnManagers))
	for _, u := range executors {
		p.usernames[u] = struct{}{}
	}
	for _, u := range managers {
		p.usernames[u] = struct{}{}
	}

	p.addRecord(ingestion.TaskRecord{
		Key:          p.allocateKey(title),
		Title:        title,
		NodeType:     ingestion.NodeTypeTask,
		Source:       p.opts.Source,
		SourceRef:    fmt.Sprintf("row:%d", rowNum),
		CreatedDate:  parseDate(p.cell(row, columnCreated)),
		DeadlineDate: parseDate(p.cell(row, columnDeadline)),
		Description:  normalizeText(p.cell(row, columnDescription)),
		Executors:    executors,
		Managers:     managers,
		Parents:      parents,
		IsAPI:        parseAPIFlag(p.cell(row, columnIsAPI)),
		APICallCount: parseAPICalls(p.cell(row, columnAPICalls)),
	})
}

// synthesizeParents appends a placeholder record, sorted by title, for
// every parent title no real row defines.
func (p *tasksParser) synthesizeParents() {
	referenced := make(map[string]struct{})
	for i := range p.records {
		for _, parent := range p.records[i].Parents {
			referenced[parent] = struct{}{}
		}
	}

	missing := make([]string, 0)
	for title := range referenced {
		if _, ok := p.keysByTitle[title]; !ok {
			missing = append(missing, title)
		}
	}
	sort.Strings(missing)

	for _, title := range missing {
		p.addRecord(ingestion.TaskRecord{
			Key:       p.allocateKey(title),
			Title:     title,
			NodeType:  ingestion.NodeTypeTask,
			Source:    p.opts.Source,
			SourceRef: syntheticParentRef,
			Executors: make([]string, 0),
			Managers:  make([]string, 0),
			Parents:   make([]string, 0),
		})
		p.warn(ingestion.WarningMissingParentCreated,
			fmt.Sprintf("created missing parent node: %s", title), 0)
	}
}

// resolveCitations turns each record's parent titles into key-to-key
// citation records. A parent title carried by more than one record
// resolves to the earliest one and is flagged; a title no record
// carries is flagged and skipped.
func (p *tasksParser) resolveCitations() {
	weight := decimal.NewFromInt(1)
	for i := range p.records {
		record := &p.records[i]
		for _, parent := range record.Parents {
			candidates := p.keysByTitle[parent]
			if len(candidates) == 0 {
				p.warn(ingestion.WarningMissingParentNode,
					fmt.Sprintf("parent node not found: %s", parent), 0)
				continue
			}
			if len(candidates) > 1 {
				p.warn(ingestion.WarningAmbiguousParentTitle,
					fmt.Sprintf("parent title maps to multiple nodes: %s", parent), 0)
			}
			target := p.records[p.recordIndex[candidates[0]]]
			p.citations = append(p.citations, ingestion.CitationRecord{
				FromKey:       record.Key,
				ToKey:         target.Key,
				FromTitle:     record.Title,
				ToTitle:       parent,
				FromSourceRef: record.SourceRef,
				ToSourceRef:   target.SourceRef,
				Weight:        weight,
			})
		}
	}
}

func (p *tasksParser) addRecord(record ingestion.TaskRecord) {
	p.recordIndex[record.Key] = len(p.records)
	p.keysByTitle[record.Title] = append(p.keysByTitle[record.Title], record.Key)
	p.records = append(p.records, record)
}

// allocateKey returns the record key for one more occurrence of title:
// the title itself first, then "title#2", "title#3" and so on.
func (p *tasksParser) allocateKey(title string) string {
	p.titleCounts[title]++
	if n := p.titleCounts[title]; n > 1 {
		return fmt.Sprintf("%s#%d", title, n)
	}
	return title
}

func (p *tasksParser) users() []ingestion.UserRecord {
	users := make([]ingestion.UserRecord, 0, len(p.usernames))
	for username := range p.usernames {
		users = append(users, ingestion.UserRecord{Username: username})
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users
}

func (p *tasksParser) warn(code, message string, row int) {
	p.warnings = append(p.warnings, ingestion.ParseWarning{
		Code:    code,
		Message: message,
		Row:     row,
	})
}

// cell reads one column of a row, tolerating short rows
func (p *tasksParser) cell(row []string, column string) string {
	idx, ok := p.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// stripBOM drops a UTF-8 byte order mark exports tend to start with
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if peek, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(peek, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return br
}

// normalizeText folds ideographic spaces and whitespace runs into
// single spaces and trims the ends.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "　", " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// splitMultivalue splits a cell on ASCII and fullwidth commas and
// semicolons, normalizing and dropping empty tokens.
func splitMultivalue(s string) []string {
	parts := make([]string, 0)
	text := normalizeText(s)
	if text == "" {
		return parts
	}
	for _, token := range multivalueSplit.Split(text, -1) {
		if token = normalizeText(token); token != "" {
			parts = append(parts, token)
		}
	}
	return parts
}

func parseDate(s string) *time.Time {
	if t, ok := utils.ParseFlexibleDate(normalizeText(s)); ok {
		return &t
	}
	return nil
}

// parseAPIFlag interprets the 是否是API cell: numeric cells are truthy
// when non-zero, everything else matches a small set of yes-words.
func parseAPIFlag(s string) bool {
	text := normalizeText(s)
	if isMissingToken(text) {
		return false
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f != 0
	}
	switch strings.ToLower(text) {
	case "是", "true", "yes", "1":
		return true
	}
	return false
}

// parseAPICalls interprets the API调用次数 cell, truncating fractional
// counts and treating anything non-numeric as zero.
func parseAPICalls(s string) int {
	text := normalizeText(s)
	if isMissingToken(text) {
		return 0
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// isMissingToken reports spreadsheet spellings of "no value"
func isMissingToken(s string) bool {
	switch s {
	case "", "nan", "NaN", "None":
		return true
	}
	return false
}
