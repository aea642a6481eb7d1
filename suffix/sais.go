// SPDX-FileCopyrightText: © 2021 Ulrich Kunitz
//
// SPDX-License-Identifier: BSD-3-Clause

// Package suffix provides suffix array construction and the longest common
// prefix (LCP) table derived from it.
//
// Sort implements the SA-IS algorithm: suffixes are classified as S-type or
// L-type, the left-most S (LMS) positions are sorted by induction from two
// counting-sort passes, and — if that induction does not already
// distinguish all LMS substrings — the algorithm recurses on the sequence of
// LMS substring names.
package suffix

import "fmt"

const uninitialized = -1

// Sort computes the suffix array of t, an integer string over the alphabet
// [0, alphabetSize), into sa. The last element of t must be strictly smaller
// than every other element; it acts as the sentinel the induced-sorting
// passes rely on. len(sa) must equal len(t).
func Sort(t []int32, alphabetSize int, sa []int32) {
	if len(sa) != len(t) {
		panic(fmt.Errorf("suffix: len(sa)=%d != len(t)=%d", len(sa), len(t)))
	}
	if len(t) == 0 {
		return
	}
	sais(t, sa, alphabetSize)
}

func isLMS(i int, stype []bool) bool {
	return i > 0 && stype[i] && !stype[i-1]
}

func sais(t []int32, sa []int32, alphabetSize int) {
	n := len(t)
	if n == 1 {
		sa[0] = 0
		return
	}

	stype := make([]bool, n)
	buckets := make([]int32, alphabetSize+1)

	stype[n-1] = true
	buckets[t[n-1]]++
	isS := true
	lmsCount := 0
	for i := n - 2; i >= 0; i-- {
		buckets[t[i]]++
		switch {
		case t[i] > t[i+1]:
			if isS {
				lmsCount++
			}
			isS = false
		case t[i] < t[i+1]:
			isS = true
		}
		stype[i] = isS
	}

	l := int32(0)
	for b := 0; b <= alphabetSize; b++ {
		next := l + buckets[b]
		buckets[b] = l
		l = next
	}

	for i := range sa {
		sa[i] = uninitialized
	}
	bucketIndex := make([]int32, alphabetSize)
	for b := 0; b < alphabetSize; b++ {
		bucketIndex[b] = buckets[b+1]
	}
	for i := n - 1; i >= 1; i-- {
		if isLMS(i, stype) {
			c := t[i]
			bucketIndex[c]--
			sa[bucketIndex[c]] = int32(i)
		}
	}

	induce(t, sa, alphabetSize, stype, buckets, bucketIndex)

	j := 0
	for s := 0; s < n; s++ {
		idx := sa[s]
		if idx != uninitialized && isLMS(int(idx), stype) {
			sa[j] = idx
			j++
		}
	}
	lmsFound := j

	subData := sa[n/2:]
	for i := range subData {
		subData[i] = uninitialized
	}
	name := int32(0)
	prevIndex := int32(uninitialized)
	for s := 0; s < lmsFound; s++ {
		idx := sa[s]
		if prevIndex != uninitialized && !lmsSubstringsEqual(t, int(prevIndex), int(idx), stype) {
			name++
		}
		subData[idx/2] = name
		prevIndex = idx
	}
	newAlphabetSize := int(name) + 1

	if newAlphabetSize != lmsFound {
		j = 0
		for i := range subData {
			if subData[i] != uninitialized {
				subData[j] = subData[i]
				j++
			}
		}
		sais(subData[:lmsFound], sa[:lmsFound], newAlphabetSize)

		j = 0
		for i := 1; i < n; i++ {
			if isLMS(i, stype) {
				subData[j] = int32(i)
				j++
			}
		}
		for s := 0; s < lmsFound; s++ {
			sa[s] = subData[sa[s]]
		}
	}

	j = n
	s := lmsFound - 1
	for b := alphabetSize - 1; b >= 0; b-- {
		for s >= 0 && t[sa[s]] == int32(b) {
			j--
			sa[j] = sa[s]
			s--
		}
		for j > int(buckets[b]) {
			j--
			sa[j] = uninitialized
		}
	}

	induce(t, sa, alphabetSize, stype, buckets, bucketIndex)
}

// induce performs the two counting-sort sweeps that propagate order from the
// positions already placed in sa (LMS suffixes on the first call, sorted LMS
// suffixes on the second) to the L-type and then the S-type suffixes.
func induce(t []int32, sa []int32, alphabetSize int, stype []bool, buckets, bucketIndex []int32) {
	n := len(t)

	for b := 0; b < alphabetSize; b++ {
		bucketIndex[b] = buckets[b]
	}
	for s := 0; s < n; s++ {
		idx := sa[s]
		if idx > 0 && !stype[idx-1] {
			c := t[idx-1]
			sa[bucketIndex[c]] = idx - 1
			bucketIndex[c]++
		}
	}

	for b := 0; b < alphabetSize; b++ {
		bucketIndex[b] = buckets[b+1]
	}
	for s := n - 1; s >= 0; s-- {
		idx := sa[s]
		if idx > 0 && stype[idx-1] {
			c := t[idx-1]
			bucketIndex[c]--
			sa[bucketIndex[c]] = idx - 1
		}
	}
}

// lmsSubstringsEqual reports whether the LMS substrings starting at i1 and i2
// are identical, including their terminating LMS position.
func lmsSubstringsEqual(t []int32, i1, i2 int, stype []bool) bool {
	for {
		if t[i1] != t[i2] {
			return false
		}
		i1++
		i2++
		if isLMS(i1, stype) && isLMS(i2, stype) {
			return true
		}
	}
}

// Invert computes the inverse rsa of the suffix array sa, such that
// rsa[sa[i]] == i for every i.
func Invert(sa, rsa []int32) {
	if len(sa) != len(rsa) {
		panic(fmt.Errorf("suffix: len(sa)=%d != len(rsa)=%d", len(sa), len(rsa)))
	}
	for i, pos := range sa {
		rsa[pos] = int32(i)
	}
}

// LCP computes the longest-common-prefix table for t using Kasai's
// algorithm: lcp[rsa[i]] is the length of the common prefix of suffix i and
// its successor in sa, computed by extending the previous match length by
// at most one position of shrinkage per step. lcp[0] (the sentinel suffix,
// which shares no prefix with its successor) and lcp[len(t)-1] (the last
// entry of sa, which has no successor) are zero.
func LCP(t []int32, sa, rsa, lcp []int32) {
	n := len(t)
	if len(sa) != n || len(rsa) != n || len(lcp) != n {
		panic(fmt.Errorf("suffix: sa/rsa/lcp must have length %d", n))
	}
	if n == 0 {
		return
	}
	lcp[0] = 0
	lcp[n-1] = 0
	h := int32(0)
	for i := 0; i < n-1; i++ {
		r := rsa[i]
		if int(r) < n-1 {
			j := int(sa[r+1])
			m := int32(n - max(i, j))
			for h < m && t[i+int(h)] == t[j+int(h)] {
				h++
			}
			lcp[r] = h
			if h > 0 {
				h--
			}
		}
	}
}
