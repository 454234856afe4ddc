package search

const ExactMatchBonus = exactMatchBonus
