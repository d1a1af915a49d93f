package solver

import (
	"termsweeper/game"
)

// maxSegmentSize を超えるセグメントは探索しきれないので諦めます
const maxSegmentSize = 18

// TankSolver はバックトラック探索を行う構造体
type TankSolver struct {
	Board *game.Board
}

func NewTankSolver(b *game.Board) *TankSolver {
	return &TankSolver{Board: b}
}

// Solve はタンクアルゴリズムを実行し、確定した安全な手または地雷を返します
// 確定しない場合は地雷確率が最も低いマスを開ける手を返します
func (ts *TankSolver) Solve() *Move {
	// 1. 境界マスを連結成分ごとにまとめる
	segments := ts.createSegments()

	var bestMove *Move
	bestProb := 1.0 // 1.0 = 地雷確率100% (最悪)

	for _, seg := range segments {
		if len(seg.unknowns) > maxSegmentSize {
			continue
		}

		solutions := ts.solveSegment(seg)
		if len(solutions) == 0 {
			continue // 解なし (フラグが間違っている)
		}

		counts := make([]int, len(seg.unknowns))
		for _, sol := range solutions {
			for i, isMine := range sol {
				if isMine {
					counts[i]++
				}
			}
		}

		total := float64(len(solutions))
		for i, count := range counts {
			prob := float64(count) / total
			pos := seg.unknowns[i]

			// 確定安全 (0%)
			if prob == 0.0 {
				return &Move{Coord: pos, Type: MoveOpen, Strategy: "Tank", Confidence: 1.0}
			}
			// 確定地雷 (100%)
			if prob == 1.0 && ts.Board.AvailableFlags() > 0 {
				return &Move{Coord: pos, Type: MoveFlag, Strategy: "Tank", Confidence: 1.0}
			}

			if prob < bestProb {
				bestProb = prob
				bestMove = &Move{
					Coord:      pos,
					Type:       MoveOpen,
					Strategy:   "Tank(Prob)",
					Confidence: 1.0 - prob,
				}
			}
		}
	}

	return bestMove
}

type segment struct {
	unknowns []game.Coord // このセグメントに含まれる未開封マス
	rules    []rule       // このセグメント内の数字マス制約
}

type rule struct {
	cells []int // unknowns のインデックス
	mines int   // 必要な地雷数
}

func (ts *TankSolver) key(c game.Coord) int {
	return c.Row*ts.Board.Columns() + c.Col
}

func (ts *TankSolver) createSegments() []*segment {
	// 1. 制約を持つ数字マスと、それに隣接する未開封マスを集める
	unknownMap := make(map[int]game.Coord)
	var order []int // map の順序に依存しないよう発見順を記録
	var numbered []game.Coord

	for _, c := range numberedTiles(ts.Board) {
		_, flags, hidden := neighborsInfo(ts.Board, c)
		if flags == view(ts.Board, c).Adjacent || len(hidden) == 0 {
			continue
		}
		for _, h := range hidden {
			k := ts.key(h)
			if _, ok := unknownMap[k]; !ok {
				unknownMap[k] = h
				order = append(order, k)
			}
		}
		numbered = append(numbered, c)
	}

	// 2. 連結成分分解
	// 同じ数字マスに接している未開封マス同士をつなぐ
	adj := make(map[int][]int)
	for _, c := range numbered {
		_, _, hidden := neighborsInfo(ts.Board, c)
		for i := 0; i < len(hidden)-1; i++ {
			u1 := ts.key(hidden[i])
			for j := i + 1; j < len(hidden); j++ {
				u2 := ts.key(hidden[j])
				adj[u1] = append(adj[u1], u2)
				adj[u2] = append(adj[u2], u1)
			}
		}
	}

	visited := make(map[int]bool)
	var segments []*segment

	for _, k := range order {
		if visited[k] {
			continue
		}

		// BFSでグループ探索
		groupKeys := []int{}
		queue := []int{k}
		visited[k] = true

		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			groupKeys = append(groupKeys, curr)

			for _, n := range adj[curr] {
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}

		seg := &segment{unknowns: make([]game.Coord, len(groupKeys))}
		local := make(map[int]int)
		for i, gk := range groupKeys {
			seg.unknowns[i] = unknownMap[gk]
			local[gk] = i
		}

		// ルール生成
		for _, c := range numbered {
			_, flags, hidden := neighborsInfo(ts.Board, c)
			// 先頭がこのセグメントにあれば全部含まれている (連結しているため)
			if _, ok := local[ts.key(hidden[0])]; !ok {
				continue
			}
			r := rule{
				cells: make([]int, len(hidden)),
				mines: view(ts.Board, c).Adjacent - flags,
			}
			for i, h := range hidden {
				r.cells[i] = local[ts.key(h)]
			}
			seg.rules = append(seg.rules, r)
		}
		segments = append(segments, seg)
	}

	return segments
}

func (ts *TankSolver) solveSegment(seg *segment) [][]bool {
	solutions := [][]bool{}
	config := make([]bool, len(seg.unknowns))
	ts.backtrack(seg, 0, config, &solutions)
	return solutions
}

func (ts *TankSolver) backtrack(seg *segment, index int, config []bool, solutions *[][]bool) {
	if index == len(seg.unknowns) {
		if isValid(seg, config, index, true) {
			sol := make([]bool, len(config))
			copy(sol, config)
			*solutions = append(*solutions, sol)
		}
		return
	}

	// 枝刈り
	if !isValid(seg, config, index, false) {
		return
	}

	// 仮定1: 地雷
	config[index] = true
	ts.backtrack(seg, index+1, config, solutions)

	// 仮定2: 安全
	config[index] = false
	ts.backtrack(seg, index+1, config, solutions)
}

// isValid は決定済み (index 未満) のマスだけでルールを満たしうるか調べます
func isValid(seg *segment, config []bool, index int, isFinal bool) bool {
	for _, r := range seg.rules {
		mines, undecided := 0, 0
		for _, idx := range r.cells {
			switch {
			case idx >= index:
				undecided++
			case config[idx]:
				mines++
			}
		}

		if isFinal {
			if mines != r.mines {
				return false
			}
			continue
		}
		// 地雷が多すぎる、または残り全部を地雷にしても足りない
		if mines > r.mines || mines+undecided < r.mines {
			return false
		}
	}
	return true
}
